// Command lp-bfs runs single-source breadth-first search over a binary
// triple graph file.
package main

import (
	"flag"

	"github.com/gas2d/engine/apps"
	"github.com/gas2d/engine/apps/oracle"
	"github.com/gas2d/engine/config"
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/glog"
	"github.com/gas2d/engine/graphio"
	"github.com/rs/zerolog/log"
)

func main() {
	rootPtr := flag.Uint("root", 0, "Source vertex BFS hops are measured from.")
	opts := config.ParseFlags()
	glog.SetLevel(int(opts.DebugLevel))
	root := uint32(*rootPtr)

	lr, err := graphio.LoadTriples(opts.GraphFile, graphio.LoadOptions{Reverse: opts.Reverse, RemoveCycles: opts.RemoveCycles})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load graph")
	}
	am := graphio.BuildMatrixAnnotated(lr, opts.NTiles, opts.NRanks)

	algo := apps.BFS{Root: root}
	e := engine.NewEngine[apps.BFSState, apps.BFSMessage, apps.BFSMessage](am, algo, apps.BFSMessageCodec, apps.BFSMessageCodec, apps.BFSStateCodec)
	e.Execute(opts.MaxIters)

	reached := engine.Reduce[apps.BFSState, apps.BFSMessage, apps.BFSMessage, int](e, func(_ uint32, s apps.BFSState) int {
		if s.Hops >= 0 {
			return 1
		}
		return 0
	}, func(a, b int) int { return a + b }, 0, false)
	log.Info().Msg("vertices reached from root " + glog.V(root) + ": " + glog.V(reached))

	if opts.OracleCompare {
		n := int(am.NCols)
		want := oracle.FromTriples(n, lr.Triples).BFSHops(root)
		mismatches := 0
		for vid := 0; vid < n; vid++ {
			got := e.VertexValue(uint32(vid)).Hops
			if got != want[vid] {
				mismatches++
			}
		}
		log.Info().Msg("oracle mismatches: " + glog.V(mismatches))
	}
}
