package vocab

import "fmt"

// Simple is a vocabulary which only knows about whole
// words.
type Simple struct {
	words []string
	index map[string]int
}

// NewSimple creates a Simple vocabulary.
//
// The ID of each word is its index in words.
// Duplicate words are not allowed.
func NewSimple(words []string) (*Simple, error) {
	index, err := indexWords(words)
	if err != nil {
		return nil, err
	}
	return &Simple{words: words, index: index}, nil
}

// Idx returns a Direct index for known words and a
// NotFound index otherwise.
func (s *Simple) Idx(word string) WordIndex {
	if idx, ok := s.index[word]; ok {
		return WordIndex{Kind: Direct, Index: idx}
	}
	return WordIndex{Kind: NotFound}
}

// Word returns the word with the given ID.
func (s *Simple) Word(idx int) string {
	return s.words[idx]
}

// Words returns a copy of the word list.
func (s *Simple) Words() []string {
	return append([]string(nil), s.words...)
}

// WordsLen returns the number of words.
func (s *Simple) WordsLen() int {
	return len(s.words)
}

// VocabLen is equivalent to WordsLen.
func (s *Simple) VocabLen() int {
	return len(s.words)
}

func indexWords(words []string) (map[string]int, error) {
	index := make(map[string]int, len(words))
	for i, w := range words {
		if _, ok := index[w]; ok {
			return nil, fmt.Errorf("duplicate word: %q", w)
		}
		index[w] = i
	}
	return index, nil
}
