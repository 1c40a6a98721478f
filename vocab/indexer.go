package vocab

import (
	"encoding/binary"
	"hash/fnv"
	"unicode/utf8"
)

// An Indexer maps n-grams to subword rows.
type Indexer interface {
	// Index returns the subword rows for an n-gram,
	// relative to the first subword row.
	// It returns nil if the n-gram has no rows.
	Index(ngram string) []int

	// Buckets returns the number of subword rows.
	Buckets() int
}

// HashIndexer hashes n-grams into 2^BucketsExp buckets
// using 64-bit FNV-1a.
//
// The hash input is the rune count of the n-gram as a
// little-endian uint64, followed by every rune as a
// little-endian uint32.
type HashIndexer struct {
	BucketsExp uint
}

// Index returns the bucket of the n-gram.
func (h HashIndexer) Index(ngram string) []int {
	hasher := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(utf8.RuneCountInString(ngram)))
	hasher.Write(buf[:])
	for _, r := range ngram {
		binary.LittleEndian.PutUint32(buf[:4], uint32(r))
		hasher.Write(buf[:4])
	}
	mask := uint64(1)<<h.BucketsExp - 1
	return []int{int(hasher.Sum64() & mask)}
}

// Buckets returns 2^BucketsExp.
func (h HashIndexer) Buckets() int {
	return 1 << h.BucketsExp
}

// FastTextIndexer hashes n-grams the way fastText does.
type FastTextIndexer struct {
	NumBuckets int
}

// Index returns the bucket of the n-gram.
func (f FastTextIndexer) Index(ngram string) []int {
	if f.NumBuckets <= 0 {
		return nil
	}
	return []int{int(fastTextHash(ngram) % uint32(f.NumBuckets))}
}

// Buckets returns NumBuckets.
func (f FastTextIndexer) Buckets() int {
	return f.NumBuckets
}

// fastTextHash is 32-bit FNV-1a in which every byte is
// sign-extended before it is mixed in.
func fastTextHash(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(int32(int8(s[i])))
		h *= 16777619
	}
	return h
}

// ExplicitIndexer stores an explicit row for each known
// n-gram.
// Several n-grams may share a row.
type ExplicitIndexer struct {
	ngrams  []string
	indices []int
	lookup  map[string]int
	buckets int
}

// NewExplicitIndexer creates an ExplicitIndexer which
// maps ngrams[i] to indices[i].
func NewExplicitIndexer(ngrams []string, indices []int) *ExplicitIndexer {
	if len(ngrams) != len(indices) {
		panic("ngram and index counts differ")
	}
	res := &ExplicitIndexer{
		ngrams:  ngrams,
		indices: indices,
		lookup:  make(map[string]int, len(ngrams)),
	}
	for i, ngram := range ngrams {
		res.lookup[ngram] = indices[i]
		if indices[i] >= res.buckets {
			res.buckets = indices[i] + 1
		}
	}
	return res
}

// Index returns the row of a known n-gram.
func (e *ExplicitIndexer) Index(ngram string) []int {
	if idx, ok := e.lookup[ngram]; ok {
		return []int{idx}
	}
	return nil
}

// Buckets returns one more than the largest row.
func (e *ExplicitIndexer) Buckets() int {
	return e.buckets
}

// NGrams returns the n-grams and their rows.
func (e *ExplicitIndexer) NGrams() ([]string, []int) {
	return append([]string(nil), e.ngrams...), append([]int(nil), e.indices...)
}
