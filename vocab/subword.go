package vocab

// Subword is a vocabulary which embeds unknown words
// using the rows of their character n-grams.
type Subword struct {
	words   []string
	index   map[string]int
	minN    int
	maxN    int
	indexer Indexer
	ngrams  func(s string, minN, maxN int) []string
}

// NewBucketVocab creates a Subword vocabulary which hashes
// n-grams into 2^bucketsExp buckets.
func NewBucketVocab(words []string, minN, maxN int, bucketsExp uint) (*Subword, error) {
	return newSubword(words, minN, maxN, HashIndexer{BucketsExp: bucketsExp}, NGrams)
}

// NewFastTextVocab creates a Subword vocabulary which
// hashes n-grams with the fastText hash function.
func NewFastTextVocab(words []string, minN, maxN, buckets int) (*Subword, error) {
	return newSubword(words, minN, maxN, FastTextIndexer{NumBuckets: buckets}, fastTextNGrams)
}

// NewExplicitVocab creates a Subword vocabulary with an
// explicit n-gram table.
func NewExplicitVocab(words []string, minN, maxN int, indexer *ExplicitIndexer) (*Subword, error) {
	return newSubword(words, minN, maxN, indexer, NGrams)
}

func newSubword(words []string, minN, maxN int, indexer Indexer,
	ngrams func(string, int, int) []string) (*Subword, error) {
	index, err := indexWords(words)
	if err != nil {
		return nil, err
	}
	return &Subword{
		words:   words,
		index:   index,
		minN:    minN,
		maxN:    maxN,
		indexer: indexer,
		ngrams:  ngrams,
	}, nil
}

// Idx resolves known words directly and all other words
// through their n-grams.
func (s *Subword) Idx(word string) WordIndex {
	if idx, ok := s.index[word]; ok {
		return WordIndex{Kind: Direct, Index: idx}
	}
	indices := s.SubwordIndices(word)
	if len(indices) == 0 {
		return WordIndex{Kind: NotFound}
	}
	return WordIndex{Kind: Composed, Indices: indices}
}

// SubwordIndices returns the n-gram rows for the word,
// whether or not the word itself is known.
func (s *Subword) SubwordIndices(word string) []int {
	var res []int
	for _, ngram := range s.ngrams("<"+word+">", s.minN, s.maxN) {
		for _, idx := range s.indexer.Index(ngram) {
			res = append(res, len(s.words)+idx)
		}
	}
	return res
}

// Word returns the word with the given ID.
func (s *Subword) Word(idx int) string {
	return s.words[idx]
}

// Words returns a copy of the word list.
func (s *Subword) Words() []string {
	return append([]string(nil), s.words...)
}

// WordsLen returns the number of words.
func (s *Subword) WordsLen() int {
	return len(s.words)
}

// VocabLen returns the number of words plus the number of
// subword buckets.
func (s *Subword) VocabLen() int {
	return len(s.words) + s.indexer.Buckets()
}

// MinN returns the minimum n-gram length.
func (s *Subword) MinN() int {
	return s.minN
}

// MaxN returns the maximum n-gram length.
func (s *Subword) MaxN() int {
	return s.maxN
}

// Indexer returns the n-gram indexer.
func (s *Subword) Indexer() Indexer {
	return s.indexer
}
