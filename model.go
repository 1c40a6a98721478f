// Package wordvecs answers lookup, similarity and analogy
// queries over pretrained word embeddings.
//
// A Model is loaded once with Load and is read-only
// afterwards, so any number of Goroutines may query it at
// once.
package wordvecs

import (
	"fmt"
	"io"

	"github.com/unixpickle/wordvecs/storage"
	"github.com/unixpickle/wordvecs/vocab"
)

// Metadata is the free-form description stored with some
// models.
// Values are strings, numbers, booleans, slices and nested
// maps.
type Metadata map[string]interface{}

// Model is an immutable embedding model: a vocabulary and
// the matrix its rows refer to.
type Model struct {
	vocab    vocab.Vocab
	storage  storage.Storage
	metadata Metadata
	norms    []float32
}

// NewModel creates a Model.
//
// The storage must have exactly one row per vocabulary
// entry.
// The metadata and norms may be nil; if norms are present,
// there must be one per word.
//
// The Model takes ownership of its arguments.
// If the storage implements io.Closer, Close closes it.
func NewModel(v vocab.Vocab, s storage.Storage, metadata Metadata,
	norms []float32) (*Model, error) {
	rows, _ := s.Shape()
	if rows != v.VocabLen() {
		return nil, fmt.Errorf("%w: vocabulary has %d entries but storage has %d rows",
			ErrInvalidModel, v.VocabLen(), rows)
	}
	if norms != nil && len(norms) != v.WordsLen() {
		return nil, fmt.Errorf("%w: %d norms for %d words", ErrInvalidModel,
			len(norms), v.WordsLen())
	}
	return &Model{vocab: v, storage: s, metadata: metadata, norms: norms}, nil
}

// Vocab returns the vocabulary of the model.
func (m *Model) Vocab() vocab.Vocab {
	return m.vocab
}

// Storage returns the embedding matrix of the model.
func (m *Model) Storage() storage.Storage {
	return m.storage
}

// Metadata returns the model's metadata, or nil if it has
// none.
func (m *Model) Metadata() Metadata {
	return m.metadata
}

// Words returns every word in row order.
func (m *Model) Words() []string {
	return m.vocab.Words()
}

// WordsLen returns the number of words.
func (m *Model) WordsLen() int {
	return m.vocab.WordsLen()
}

// VocabLen returns the number of words plus the number of
// subword rows.
func (m *Model) VocabLen() int {
	return m.vocab.VocabLen()
}

// Len returns the number of rows in the storage.
func (m *Model) Len() int {
	rows, _ := m.storage.Shape()
	return rows
}

// Dims returns the dimensionality of the embeddings.
func (m *Model) Dims() int {
	_, cols := m.storage.Shape()
	return cols
}

// Idx resolves a word without computing its embedding.
func (m *Model) Idx(word string) vocab.WordIndex {
	return m.vocab.Idx(word)
}

// Close releases the resources held by the model, such as
// a memory mapping.
//
// A memory-mapped model must not be used after it is
// closed; doing so panics.
func (m *Model) Close() error {
	if c, ok := m.storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
