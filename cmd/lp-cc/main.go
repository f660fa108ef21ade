// Command lp-cc runs connected components (min-label propagation) over a
// binary triple graph file.
package main

import (
	"github.com/gas2d/engine/apps"
	"github.com/gas2d/engine/config"
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/glog"
	"github.com/gas2d/engine/graphio"
	"github.com/gas2d/engine/matrix"
	"github.com/rs/zerolog/log"
)

// mirrorUndirected doubles every triple so CC sees an undirected graph.
// Component labels are only meaningful when edges are walkable both ways.
func mirrorUndirected(triples []matrix.Triple) []matrix.Triple {
	out := make([]matrix.Triple, 0, 2*len(triples))
	for _, tr := range triples {
		out = append(out, tr, matrix.Triple{Row: tr.Col, Col: tr.Row, Weight: tr.Weight, Weighted: tr.Weighted})
	}
	return out
}

func main() {
	opts := config.ParseFlags()
	glog.SetLevel(int(opts.DebugLevel))

	lr, err := graphio.LoadTriples(opts.GraphFile, graphio.LoadOptions{Reverse: opts.Reverse, RemoveCycles: opts.RemoveCycles})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load graph")
	}
	// CC only makes sense over an undirected graph: mirror every edge
	// unconditionally.
	lr.Triples = mirrorUndirected(lr.Triples)

	am := graphio.BuildMatrixAnnotated(lr, opts.NTiles, opts.NRanks)

	e := engine.NewEngine[uint32, uint32, uint32](am, apps.CC{}, apps.CCCodecs.Msg, apps.CCCodecs.Accum, apps.CCCodecs.State)
	e.Execute(opts.MaxIters)

	components := engine.Reduce[uint32, uint32, uint32, int](e, func(vid uint32, s uint32) int {
		if s == vid {
			return 1
		}
		return 0
	}, func(a, b int) int { return a + b }, 0, false)
	log.Info().Msg("number of unique components (upper bound): " + glog.V(components))
}
