// Command lp-pagerank runs damped-random-walk PageRank over a binary triple
// graph file.
package main

import (
	"flag"

	"github.com/gas2d/engine/apps"
	"github.com/gas2d/engine/config"
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/glog"
	"github.com/gas2d/engine/graphio"
	"github.com/rs/zerolog/log"
)

func main() {
	alphaPtr := flag.Float64("alpha", 0.85, "Damping factor.")
	tolPtr := flag.Float64("tol", 1e-6, "Per-vertex convergence tolerance.")
	opts := config.ParseFlags()
	glog.SetLevel(int(opts.DebugLevel))

	lr, err := graphio.LoadTriples(opts.GraphFile, graphio.LoadOptions{Reverse: opts.Reverse, RemoveCycles: opts.RemoveCycles})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load graph")
	}
	am := graphio.BuildMatrixAnnotated(lr, opts.NTiles, opts.NRanks)

	algo := apps.NewPageRank(am, *alphaPtr, *tolPtr)
	e := engine.NewEngine[apps.PRState, float64, float64](am, algo, apps.Float64Codec, apps.Float64Codec, apps.PRStateCodec)
	e.Execute(opts.MaxIters)

	total := engine.Reduce[apps.PRState, float64, float64, float64](e, func(_ uint32, s apps.PRState) float64 {
		return s.Rank
	}, func(a, b float64) float64 { return a + b }, 0, false)
	log.Info().Msg("total rank mass: " + glog.V(total))
}
