package wordvecs

import (
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/wordvecs/vocab"
)

// Embedding returns the vector for a word.
//
// Words with their own row get a copy of that row.
// Words resolved through subwords get the mean of the
// subword rows.
// The second return value is false if the word could not
// be resolved.
func (m *Model) Embedding(word string) ([]float32, bool) {
	return m.embeddingIdx(m.vocab.Idx(word))
}

// EmbeddingWithNorm is like Embedding, but it also
// returns the norm of the vector.
//
// If the model stores norms for its words, the stored norm
// is returned, which may differ from the norm of the
// returned vector when the model was normalized.
func (m *Model) EmbeddingWithNorm(word string) ([]float32, float32, bool) {
	idx := m.vocab.Idx(word)
	vec, ok := m.embeddingIdx(idx)
	if !ok {
		return nil, 0, false
	}
	if idx.Kind == vocab.Direct && m.norms != nil {
		return vec, m.norms[idx.Index], true
	}
	return vec, l2Norm(vec), true
}

func (m *Model) embeddingIdx(idx vocab.WordIndex) ([]float32, bool) {
	switch idx.Kind {
	case vocab.Direct:
		return m.storage.Embedding(idx.Index), true
	case vocab.Composed:
		sum := anyvec32.MakeVector(m.Dims())
		for _, i := range idx.Indices {
			sum.Add(anyvec32.MakeVectorData(m.storage.Embedding(i)))
		}
		sum.Scale(float32(1) / float32(len(idx.Indices)))
		return sum.Data().([]float32), true
	}
	return nil, false
}

// EmbeddingBatch looks up the vectors for many words.
//
// The i-th vector belongs to the i-th word.
// Words which cannot be resolved get a zero vector and a
// false entry in the returned mask.
func (m *Model) EmbeddingBatch(words []string) ([][]float32, []bool) {
	vecs := make([][]float32, len(words))
	mask := make([]bool, len(words))
	for i, w := range words {
		vecs[i], mask[i] = m.Embedding(w)
		if !mask[i] {
			vecs[i] = make([]float32, m.Dims())
		}
	}
	return vecs, mask
}

// MeanEmbeddingBatch averages the vectors of the words
// which can be resolved.
//
// The coverage is the fraction of the words which were
// resolved.
// If no word is resolved, ErrEmptyCoverage is returned.
func (m *Model) MeanEmbeddingBatch(words []string) (mean []float32, coverage float32, err error) {
	vecs, mask := m.EmbeddingBatch(words)
	sum := anyvec32.MakeVector(m.Dims())
	var count int
	for i, vec := range vecs {
		if mask[i] {
			sum.Add(anyvec32.MakeVectorData(vec))
			count++
		}
	}
	if count == 0 {
		return nil, 0, ErrEmptyCoverage
	}
	sum.Scale(float32(1) / float32(count))
	return sum.Data().([]float32), float32(count) / float32(len(words)), nil
}

// MeanEmbeddingText tokenizes a piece of text and averages
// the vectors of its tokens, as in MeanEmbeddingBatch.
//
// If t is nil, a default Tokenizer is used.
func (m *Model) MeanEmbeddingText(text string, t *Tokenizer) ([]float32, float32, error) {
	if t == nil {
		t = &Tokenizer{}
	}
	return m.MeanEmbeddingBatch(t.Tokenize(text))
}

func l2Norm(vec []float32) float32 {
	if len(vec) == 0 {
		return 0
	}
	return anyvec.Norm(anyvec32.MakeVectorData(vec)).(float32)
}
