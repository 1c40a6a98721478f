package wordvecs

// SearchOptions configures similarity and analogy
// queries.
//
// The zero value of every field selects its default, so
// SearchOptions{} is equivalent to DefaultSearchOptions().
type SearchOptions struct {
	// Limit is the maximum number of results.
	// The default is 1.
	Limit int

	// BatchSize is the number of candidate rows scored at a
	// time.
	// It only affects performance, never results.
	// By default, the candidates are split evenly between
	// the available CPUs.
	BatchSize int

	// Metric is the scoring function.
	// The default is CosineSimilarity.
	Metric Metric

	// Skip contains words which may not appear in the
	// results.
	Skip map[string]bool
}

// DefaultSearchOptions returns the default options.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{Limit: 1, Metric: CosineSimilarity}
}

func (s SearchOptions) limit() int {
	if s.Limit <= 0 {
		return 1
	}
	return s.Limit
}

// skipping returns a copy of the options with extra words
// added to Skip.
func (s SearchOptions) skipping(words ...string) SearchOptions {
	skip := make(map[string]bool, len(s.Skip)+len(words))
	for w, ok := range s.Skip {
		skip[w] = ok
	}
	for _, w := range words {
		skip[w] = true
	}
	s.Skip = skip
	return s
}

// An Option is a single setting for a search.
//
// Option lists are the form in which options arrive from
// callers which cannot construct a SearchOptions directly.
type Option interface {
	apply(s *SearchOptions)
}

// Limit sets SearchOptions.Limit.
type Limit int

// BatchSize sets SearchOptions.BatchSize.
type BatchSize int

// SimilarityType sets SearchOptions.Metric.
type SimilarityType Metric

// Skip adds words to SearchOptions.Skip.
type Skip []string

func (l Limit) apply(s *SearchOptions) {
	s.Limit = int(l)
}

func (b BatchSize) apply(s *SearchOptions) {
	s.BatchSize = int(b)
}

func (m SimilarityType) apply(s *SearchOptions) {
	s.Metric = Metric(m)
}

func (k Skip) apply(s *SearchOptions) {
	*s = s.skipping(k...)
}

// FoldOptions applies the options, in order, to the
// defaults.
//
// Later options override earlier ones, except that the
// words of every Skip are combined.
func FoldOptions(opts []Option) SearchOptions {
	res := DefaultSearchOptions()
	for _, o := range opts {
		o.apply(&res)
	}
	return res
}
