// Command lp-bin2mtx converts a binary triple graph into Matrix-Market text
// form, the inverse of lp-mtx2bin.
package main

import (
	"flag"

	"github.com/gas2d/engine/graphio"
	"github.com/rs/zerolog/log"
)

func main() {
	inPtr := flag.String("g", "", "Input binary triple file.")
	outPtr := flag.String("m", "", "Output Matrix-Market text file.")
	weightedPtr := flag.Bool("w", false, "Triples carry a weight field.")
	flag.Parse()
	if *inPtr == "" || *outPtr == "" {
		log.Fatal().Msg("usage: lp-bin2mtx -g in.bin -m out.mtx [-w]")
	}

	lr, err := graphio.LoadTriples(*inPtr, graphio.LoadOptions{Weighted: *weightedPtr, Reverse: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load binary triples")
	}
	if err := graphio.SaveMatrixMarket(*outPtr, lr.NRows, lr.NCols, lr.Triples, *weightedPtr); err != nil {
		log.Fatal().Err(err).Msg("failed to write Matrix-Market file")
	}
	log.Info().Int("triples", len(lr.Triples)).Str("out", *outPtr).Msg("converted")
}
