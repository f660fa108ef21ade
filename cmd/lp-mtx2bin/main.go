// Command lp-mtx2bin converts a Matrix-Market text graph into the binary
// triple format the engine's loaders read natively.
package main

import (
	"flag"

	"github.com/gas2d/engine/graphio"
	"github.com/rs/zerolog/log"
)

func main() {
	inPtr := flag.String("g", "", "Input Matrix-Market text file.")
	outPtr := flag.String("b", "", "Output binary triple file.")
	weightedPtr := flag.Bool("w", false, "Triples carry a weight field.")
	flag.Parse()
	if *inPtr == "" || *outPtr == "" {
		log.Fatal().Msg("usage: lp-mtx2bin -g in.mtx -b out.bin [-w]")
	}

	// Reverse keeps the edges as written: conversion must not bake in the
	// engine's load-time transpose.
	lr, err := graphio.LoadMatrixMarket(*inPtr, graphio.LoadOptions{Weighted: *weightedPtr, Reverse: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load Matrix-Market file")
	}
	if err := graphio.SaveTriples(*outPtr, lr.NRows, lr.NCols, lr.Triples, *weightedPtr); err != nil {
		log.Fatal().Err(err).Msg("failed to write binary triples")
	}
	log.Info().Int("triples", len(lr.Triples)).Str("out", *outPtr).Msg("converted")
}
