// Command lp-tc counts triangles over a binary triple graph file, reducing it
// to a DAG (col > row) at load time.
package main

import (
	"github.com/gas2d/engine/apps"
	"github.com/gas2d/engine/config"
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/glog"
	"github.com/gas2d/engine/graphio"
	"github.com/rs/zerolog/log"
)

func main() {
	opts := config.ParseFlags()
	glog.SetLevel(int(opts.DebugLevel))
	opts.RemoveCycles = true // triangle counting requires a DAG orientation.

	lr, err := graphio.LoadTriples(opts.GraphFile, graphio.LoadOptions{Reverse: opts.Reverse, RemoveCycles: opts.RemoveCycles})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load graph")
	}
	am := graphio.BuildMatrixAnnotated(lr, opts.NTiles, opts.NRanks)

	tc := apps.NewTC(am)
	e := engine.NewEngine[apps.TCState, []uint32, int](am, tc, apps.TCMessageCodec, apps.IntCodec, apps.TCStateCodec)
	e.Execute(opts.MaxIters)

	total := engine.Reduce[apps.TCState, []uint32, int, int](e, func(_ uint32, s apps.TCState) int {
		return s.Count
	}, func(a, b int) int { return a + b }, 0, false)
	log.Info().Msg("total triangle count: " + glog.V(total))
}
