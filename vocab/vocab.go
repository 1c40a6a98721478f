// Package vocab maps words to the rows of an embedding
// matrix.
//
// A vocabulary either maps a word to a single row or, for
// subword vocabularies, to a set of n-gram rows whose
// vectors can be averaged to embed words which were never
// seen during training.
package vocab

// IndexKind describes how a word was resolved.
type IndexKind int

const (
	// NotFound indicates that the word has no rows.
	NotFound IndexKind = iota

	// Direct indicates that the word has its own row.
	Direct

	// Composed indicates that the word is represented by
	// a set of subword rows.
	Composed
)

// String returns a human-readable name for the kind.
func (k IndexKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Direct:
		return "direct"
	case Composed:
		return "composed"
	}
	return "unknown"
}

// WordIndex is the result of resolving a word.
type WordIndex struct {
	Kind IndexKind

	// Index is the row for a Direct word.
	Index int

	// Indices are the rows for a Composed word.
	// The same row may appear more than once.
	Indices []int
}

// Found reports whether the word resolved to any rows.
func (w WordIndex) Found() bool {
	return w.Kind != NotFound
}

// Vocab is an immutable vocabulary.
//
// Rows [0, WordsLen()) belong to the words themselves, in
// order.
// Rows [WordsLen(), VocabLen()) belong to subwords.
type Vocab interface {
	// Idx resolves a word.
	Idx(word string) WordIndex

	// Word returns the word at a row less than WordsLen().
	Word(idx int) string

	// Words returns a copy of all the words, in row order.
	Words() []string

	// WordsLen returns the number of words.
	WordsLen() int

	// VocabLen returns the total number of rows, including
	// subword rows.
	VocabLen() int
}
