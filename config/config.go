// Package config defines the flag-based options struct every cmd/lp-*
// executable parses its arguments into.
package config

import (
	"flag"

	"github.com/gas2d/engine/enforce"
)

// Options holds the parameters common to every application executable: how
// many ranks to simulate, the tile-grid shape, the convergence cap, and the
// ambient debug/oracle switches every cmd/lp-* binary exposes.
type Options struct {
	GraphFile  string // Path to the input triple/Matrix-Market file.
	NVertices  uint32 // Number of rows (and columns, for square graphs).
	NRanks     uint32 // Number of simulated ranks (must divide the tile grid evenly).
	NTiles     uint32 // Total tile count; must be a perfect square (matrix.NewMatrix2D's ntiles).
	MaxIters   int    // 0 means run to convergence.
	DebugLevel uint8  // 0 info, 1 debug, 2+ trace.

	OracleCompare bool // Compare final state against an apps/oracle result.
	Reverse       bool // Transpose edges at load instead of the default.
	RemoveCycles  bool // Keep only edges where col > row (or the reverse).
	Undirected    bool // Parsed from -u; no executable reads it (lp-cc mirrors every edge regardless).
}

// ParseFlags parses os.Args into an Options, matching the shape (if not the
// exact flag letters) of FlagsToOptions: each cmd/lp-* main() calls this
// after declaring any algorithm-specific flags of its own.
func ParseFlags() Options {
	graphPtr := flag.String("g", "", "Graph file (binary triples or Matrix-Market text).")
	nvPtr := flag.Uint("n", 0, "Number of vertices. Required unless the file header carries it.")
	nranksPtr := flag.Uint("r", 1, "Number of simulated ranks.")
	tilePtr := flag.Uint("t", 1, "Total tile count (must be a perfect square; 1 rowgroup per root).")
	itersPtr := flag.Int("i", 0, "Max iterations. 0 runs to convergence.")
	debugPtr := flag.Uint("v", 0, "Debug level: 0 info, 1 debug, 2+ trace.")
	oraclePtr := flag.Bool("o", false, "Compare final result against the gonum-backed oracle.")
	reversePtr := flag.Bool("tr", false, "Transpose edges at load (reverse src/dst).")
	cyclesPtr := flag.Bool("rc", false, "Remove cycles: keep only edges where col > row.")
	undirPtr := flag.Bool("u", false, "Undirected input (accepted but not read by any executable; lp-cc always mirrors edges).")

	flag.Parse()

	opts := Options{
		GraphFile:     *graphPtr,
		NVertices:     uint32(*nvPtr),
		NRanks:        uint32(*nranksPtr),
		NTiles:        uint32(*tilePtr),
		MaxIters:      *itersPtr,
		DebugLevel:    uint8(*debugPtr),
		OracleCompare: *oraclePtr,
		Reverse:       *reversePtr,
		RemoveCycles:  *cyclesPtr,
		Undirected:    *undirPtr,
	}
	enforce.ENFORCE(opts.NRanks > 0, "nranks must be positive")
	enforce.ENFORCE(opts.NTiles > 0, "ntiles must be positive")
	return opts
}
