// Command lp-sssp runs single-source shortest paths (weighted relaxation)
// over a binary triple graph file.
package main

import (
	"flag"
	"math"

	"github.com/gas2d/engine/apps"
	"github.com/gas2d/engine/apps/oracle"
	"github.com/gas2d/engine/config"
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/glog"
	"github.com/gas2d/engine/graphio"
	"github.com/rs/zerolog/log"
)

func main() {
	rootPtr := flag.Uint("root", 0, "Source vertex distances are measured from.")
	opts := config.ParseFlags()
	glog.SetLevel(int(opts.DebugLevel))
	root := uint32(*rootPtr)

	lr, err := graphio.LoadTriples(opts.GraphFile, graphio.LoadOptions{Weighted: true, Reverse: opts.Reverse, RemoveCycles: opts.RemoveCycles})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load graph")
	}
	am := graphio.BuildMatrixAnnotated(lr, opts.NTiles, opts.NRanks)

	algo := apps.SSSP{Root: root}
	e := engine.NewEngine[apps.SSSPState, float64, apps.SSSPState](am, algo, apps.Float64Codec, apps.SSSPStateCodec, apps.SSSPStateCodec)
	e.Execute(opts.MaxIters)

	farthest := engine.Reduce[apps.SSSPState, float64, apps.SSSPState, float64](e, func(_ uint32, s apps.SSSPState) float64 {
		if math.IsInf(s.Dist, 1) {
			return 0
		}
		return s.Dist
	}, func(a, b float64) float64 {
		if b > a {
			return b
		}
		return a
	}, 0, false)
	log.Info().Msg("farthest finite distance from root " + glog.V(root) + ": " + glog.V(farthest))

	if opts.OracleCompare {
		n := int(am.NCols)
		want := oracle.FromTriples(n, lr.Triples).SSSPDistances(root)
		mismatches := 0
		for vid := 0; vid < n; vid++ {
			got := e.VertexValue(uint32(vid)).Dist
			if math.Abs(got-want[vid]) > 1e-9 && !(math.IsInf(got, 1) && math.IsInf(want[vid], 1)) {
				mismatches++
			}
		}
		log.Info().Msg("oracle mismatches: " + glog.V(mismatches))
	}
}
