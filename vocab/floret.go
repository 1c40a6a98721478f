package vocab

import "github.com/spaolacci/murmur3"

// FloretParams are the hyperparameters of a floret
// vocabulary.
type FloretParams struct {
	Buckets  int
	MinN     int
	MaxN     int
	NumHash  int
	HashSeed uint32
	BOW      string
	EOW      string
}

// Floret is a vocabulary without any words, where every
// word is embedded through hashed subwords.
//
// Each n-gram (and the whole bracketed word) is hashed
// with 128-bit MurmurHash3, and up to four 32-bit parts of
// the hash select buckets.
type Floret struct {
	params FloretParams
}

// NewFloret creates a Floret vocabulary.
func NewFloret(p FloretParams) *Floret {
	if p.NumHash < 1 || p.NumHash > 4 {
		panic("floret hash count must be between 1 and 4")
	}
	return &Floret{params: p}
}

// Params returns the vocabulary's hyperparameters.
func (f *Floret) Params() FloretParams {
	return f.params
}

// Idx returns the subword rows of the word.
//
// Only the empty string is NotFound.
func (f *Floret) Idx(word string) WordIndex {
	if word == "" || f.params.Buckets <= 0 {
		return WordIndex{Kind: NotFound}
	}
	bracketed := f.params.BOW + word + f.params.EOW
	var indices []int
	indices = f.appendHashes(indices, bracketed)
	for _, ngram := range NGrams(bracketed, f.params.MinN, f.params.MaxN) {
		if ngram == bracketed {
			continue
		}
		indices = f.appendHashes(indices, ngram)
	}
	return WordIndex{Kind: Composed, Indices: indices}
}

func (f *Floret) appendHashes(indices []int, s string) []int {
	h1, h2 := murmur3.Sum128WithSeed([]byte(s), f.params.HashSeed)
	parts := [4]uint32{uint32(h1), uint32(h1 >> 32), uint32(h2), uint32(h2 >> 32)}
	for _, part := range parts[:f.params.NumHash] {
		indices = append(indices, int(part%uint32(f.params.Buckets)))
	}
	return indices
}

// Word panics, since a Floret vocabulary has no words.
func (f *Floret) Word(idx int) string {
	panic("floret vocabulary has no words")
}

// Words returns nil.
func (f *Floret) Words() []string {
	return nil
}

// WordsLen returns 0.
func (f *Floret) WordsLen() int {
	return 0
}

// VocabLen returns the number of buckets.
func (f *Floret) VocabLen() int {
	return f.params.Buckets
}
