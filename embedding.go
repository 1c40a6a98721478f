package wordvecs

import "github.com/unixpickle/wordvecs/vocab"

// Embedding is the query interface of a word embedding.
//
// *Model implements Embedding.
type Embedding interface {
	// Dims returns the dimensionality of the embedding.
	Dims() int

	// Len returns the number of rows, including subword
	// rows.
	Len() int

	// Idx resolves a word to its rows.
	Idx(word string) vocab.WordIndex

	// Embedding returns the vector for a word, if the word
	// can be resolved.
	Embedding(word string) ([]float32, bool)

	// EmbeddingBatch looks up many words at once, marking
	// which ones were resolved.
	EmbeddingBatch(words []string) ([][]float32, []bool)

	// MeanEmbeddingBatch averages the vectors of the
	// resolved words.
	MeanEmbeddingBatch(words []string) ([]float32, float32, error)

	// WordSimilarity finds the nearest words to a word.
	WordSimilarity(word string, opts SearchOptions) ([]Result, error)

	// EmbeddingSimilarity finds the nearest words to a
	// vector.
	EmbeddingSimilarity(vec []float32, opts SearchOptions) ([]Result, error)

	// AnalogyMasked solves an analogy, excluding the
	// masked words from the results.
	AnalogyMasked(words [3]string, mask [3]bool, opts SearchOptions) ([]Result, error)

	// Metadata returns the model's metadata, if any.
	Metadata() Metadata
}

var _ Embedding = (*Model)(nil)
