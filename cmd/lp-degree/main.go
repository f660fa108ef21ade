// Command lp-degree computes per-vertex in-degree and reports the top-k
// highest-degree vertices.
package main

import (
	"flag"

	"github.com/gas2d/engine/apps"
	"github.com/gas2d/engine/config"
	"github.com/gas2d/engine/engine"
	"github.com/gas2d/engine/glog"
	"github.com/gas2d/engine/graphio"
	"github.com/gas2d/engine/mathutils"
	"github.com/gas2d/engine/rhash"
	"github.com/rs/zerolog/log"
)

func main() {
	kPtr := flag.Int("k", 10, "Number of highest-degree vertices to report.")
	hashPtr := flag.Bool("hash", false, "Bucket-hash vertex IDs across ranks for load balance.")
	opts := config.ParseFlags()
	glog.SetLevel(int(opts.DebugLevel))

	lr, err := graphio.LoadTriples(opts.GraphFile, graphio.LoadOptions{Reverse: opts.Reverse, RemoveCycles: opts.RemoveCycles})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load graph")
	}
	var hasher rhash.Hasher = rhash.Identity{}
	if *hashPtr {
		n := mathutils.Max(lr.NRows, lr.NCols)
		hasher = rhash.NewBucket(int64(n), int64(opts.NRanks))
		graphio.HashIDs(&lr, hasher)
	}
	am := graphio.BuildMatrixAnnotated(lr, opts.NTiles, opts.NRanks)

	e := apps.NewDegreeEngine(am)
	e.Execute(0)

	top := engine.TopK[uint32, struct{}, uint32, uint32](e, *kPtr, func(_ uint32, s uint32) uint32 { return s }, func(a, b uint32) bool { return a > b }, false)
	for _, kv := range top {
		vid := uint32(hasher.Unhash(int64(kv.Vid)))
		log.Info().Msg("vertex " + glog.V(vid) + " in-degree " + glog.V(kv.Val))
	}
}
