package wordvecs

import (
	"fmt"
	"runtime"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/essentials"
	"golang.org/x/sync/errgroup"
)

// maxChunkSize bounds the rows materialized at once when
// no BatchSize is given.
const maxChunkSize = 1 << 14

// Result is a word found by a similarity search.
type Result struct {
	Word  string
	Score float32
}

// WordSimilarity finds the words closest to a word.
//
// The query word itself is a candidate unless it is listed
// in opts.Skip.
// Only words of the vocabulary are candidates, so a model
// without words, such as a floret model, yields no
// results and no error.
// If the word cannot be resolved, the error matches
// ErrNotFound.
func (m *Model) WordSimilarity(word string, opts SearchOptions) ([]Result, error) {
	vec, ok := m.Embedding(word)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, word)
	}
	return m.search(vec, opts)
}

// EmbeddingSimilarity finds the words closest to a vector.
//
// The vector must have Dims() components; otherwise, a
// *DimensionMismatchError is returned.
// As with WordSimilarity, a model without words yields no
// results.
func (m *Model) EmbeddingSimilarity(vec []float32, opts SearchOptions) ([]Result, error) {
	if len(vec) != m.Dims() {
		return nil, &DimensionMismatchError{Expected: m.Dims(), Actual: len(vec)}
	}
	return m.search(vec, opts)
}

// Analogy answers "w1 is to w2 as w3 is to ?" by searching
// for the words closest to w2 - w1 + w3.
//
// None of the three words can appear in the results.
// A model without words yields no results.
func (m *Model) Analogy(w1, w2, w3 string, opts SearchOptions) ([]Result, error) {
	return m.AnalogyMasked([3]string{w1, w2, w3}, [3]bool{true, true, true}, opts)
}

// AnalogyMasked is like Analogy, but words[i] is only
// excluded from the results if mask[i] is true.
//
// All three words are used to compute the query vector,
// regardless of the mask.
// If a word cannot be resolved, an *AnalogyError is
// returned.
func (m *Model) AnalogyMasked(words [3]string, mask [3]bool,
	opts SearchOptions) ([]Result, error) {
	var vecs [3][]float32
	var skip []string
	for i, w := range words {
		vec, ok := m.Embedding(w)
		if !ok {
			return nil, &AnalogyError{Operand: i, Word: w}
		}
		vecs[i] = vec
		if mask[i] {
			skip = append(skip, w)
		}
	}
	query := make([]float32, m.Dims())
	for i := range query {
		query[i] = vecs[1][i] - vecs[0][i] + vecs[2][i]
	}
	return m.search(query, opts.skipping(skip...))
}

// search scores every word against the query.
//
// The candidates are split into chunks which are scored in
// parallel; each chunk keeps its own best results, which
// are merged at the end.
func (m *Model) search(query []float32, opts SearchOptions) ([]Result, error) {
	if _, ok := metricNames[opts.Metric]; !ok {
		return nil, fmt.Errorf("unknown metric: %s", opts.Metric)
	}
	numWords := m.vocab.WordsLen()
	chunkSize := opts.BatchSize
	if chunkSize <= 0 {
		procs := runtime.GOMAXPROCS(0)
		chunkSize = max(1, min(maxChunkSize, (numWords+procs-1)/procs))
	}

	var querySqNorm float64
	for _, x := range query {
		querySqNorm += float64(x) * float64(x)
	}
	q := &anyvec.Matrix{
		Data: anyvec32.MakeVectorData(append([]float32(nil), query...)),
		Rows: len(query),
		Cols: 1,
	}

	numChunks := (numWords + chunkSize - 1) / chunkSize
	chunks := make([]*candidates, numChunks)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range chunks {
		start := i * chunkSize
		end := min(numWords, start+chunkSize)
		g.Go(func() error {
			chunks[i] = m.scoreChunk(q, querySqNorm, start, end, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &candidates{descending: opts.Metric.Descending()}
	for _, c := range chunks {
		merged.indices = append(merged.indices, c.indices...)
		merged.scores = append(merged.scores, c.scores...)
	}
	merged.truncate(opts.limit())

	res := make([]Result, len(merged.indices))
	for i, idx := range merged.indices {
		res[i] = Result{Word: m.vocab.Word(idx), Score: merged.scores[i]}
	}
	return res, nil
}

func (m *Model) scoreChunk(q *anyvec.Matrix, querySqNorm float64, start, end int,
	opts SearchOptions) *candidates {
	rows := m.storage.Embeddings(start, end)

	squares := rows.Data.Copy()
	anyvec.Pow(squares, squares.Creator().MakeNumeric(2))
	sqNorms := anyvec.SumCols(squares, rows.Rows).Data().([]float32)

	product := &anyvec.Matrix{
		Data: rows.Data.Creator().MakeVector(rows.Rows),
		Rows: rows.Rows,
		Cols: 1,
	}
	product.Product(false, false, rows.Data.Creator().MakeNumeric(1), rows, q,
		rows.Data.Creator().MakeNumeric(0))
	dots := product.Data.Data().([]float32)

	res := &candidates{descending: opts.Metric.Descending()}
	for i, dot := range dots {
		idx := start + i
		if opts.Skip[m.vocab.Word(idx)] {
			continue
		}
		res.indices = append(res.indices, idx)
		res.scores = append(res.scores, opts.Metric.score(float64(dot),
			float64(sqNorms[i]), querySqNorm))
	}
	res.truncate(opts.limit())
	return res
}

// candidates is a list of scored rows.
type candidates struct {
	indices    []int
	scores     []float32
	descending bool
}

// truncate sorts the candidates, best first, and keeps at
// most n of them.
// Equal scores are ordered by row.
func (c *candidates) truncate(n int) {
	essentials.VoodooSort(c.scores, func(i, j int) bool {
		if c.scores[i] != c.scores[j] {
			if c.descending {
				return c.scores[i] > c.scores[j]
			}
			return c.scores[i] < c.scores[j]
		}
		return c.indices[i] < c.indices[j]
	}, c.indices)
	if len(c.indices) > n {
		c.indices = c.indices[:n]
		c.scores = c.scores[:n]
	}
}
