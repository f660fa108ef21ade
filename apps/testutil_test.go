package apps

import "github.com/gas2d/engine/matrix"

// buildAM is the shared fixture builder for apps' tests: insert triples into
// a fresh tile grid, distribute across nranks, and run the preprocessing
// pipeline every app's engine needs before NewEngine.
func buildAM(nrows, ntiles, nranks uint32, triples []matrix.Triple) *matrix.AnnotatedMatrix2D {
	m := matrix.NewMatrix2D(nrows, nrows, ntiles)
	for _, tr := range triples {
		m.Insert(tr)
	}
	am := matrix.NewAnnotatedMatrix2D(m, nranks)
	matrix.Preprocess(am)
	matrix.BuildCSCTiles(am)
	return am
}
