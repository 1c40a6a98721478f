// Package fifu reads and writes embeddings in the
// finalfusion format.
//
// A finalfusion file starts with a header listing the
// chunks it contains, followed by the chunks themselves.
// Every chunk begins with its identifier and the length
// of its payload, so unknown chunks can be skipped.
// All numbers are little endian, and arrays are aligned
// to their element size within the file.
package fifu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/unixpickle/wordvecs/internal/textenc"
)

// Magic is the first four bytes of a finalfusion file.
const Magic = "FiFu"

// Version is the supported format version.
const Version = 0

// ChunkID identifies the contents of a chunk.
type ChunkID uint32

// Chunk identifiers.
const (
	ChunkHeader               ChunkID = 0
	ChunkSimpleVocab          ChunkID = 1
	ChunkNdArray              ChunkID = 2
	ChunkBucketSubwordVocab   ChunkID = 3
	ChunkQuantizedArray       ChunkID = 4
	ChunkMetadata             ChunkID = 5
	ChunkNdNorms              ChunkID = 6
	ChunkFastTextSubwordVocab ChunkID = 7
	ChunkExplicitSubwordVocab ChunkID = 8
	ChunkFloretSubwordVocab   ChunkID = 9
)

// Element type identifiers used by array chunks.
const (
	typeU8  uint32 = 1
	typeF32 uint32 = 10
)

// String returns the name of the chunk type.
func (c ChunkID) String() string {
	switch c {
	case ChunkHeader:
		return "Header"
	case ChunkSimpleVocab:
		return "SimpleVocab"
	case ChunkNdArray:
		return "NdArray"
	case ChunkBucketSubwordVocab:
		return "BucketSubwordVocab"
	case ChunkQuantizedArray:
		return "QuantizedArray"
	case ChunkMetadata:
		return "Metadata"
	case ChunkNdNorms:
		return "NdNorms"
	case ChunkFastTextSubwordVocab:
		return "FastTextSubwordVocab"
	case ChunkExplicitSubwordVocab:
		return "ExplicitSubwordVocab"
	case ChunkFloretSubwordVocab:
		return "FloretSubwordVocab"
	}
	return fmt.Sprintf("ChunkID(%d)", uint32(c))
}

func (c ChunkID) isVocab() bool {
	switch c {
	case ChunkSimpleVocab, ChunkBucketSubwordVocab, ChunkFastTextSubwordVocab,
		ChunkExplicitSubwordVocab, ChunkFloretSubwordVocab:
		return true
	}
	return false
}

func (c ChunkID) isStorage() bool {
	return c == ChunkNdArray || c == ChunkQuantizedArray
}

// padding computes the bytes needed to align pos to a
// four-byte boundary.
func padding(pos int64) int64 {
	return (4 - pos%4) % 4
}

var errTruncated = errors.New("chunk is truncated")

const maxPrealloc = 1 << 16

// reader tracks the absolute position in the file so that
// array padding can be computed.
type reader struct {
	r   io.Reader
	pos int64
}

func (r *reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.pos += int64(n)
	return n, err
}

func (r *reader) u32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (r *reader) u64() (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// length reads a u64 count and checks that at least
// count*minSize bytes remain before end.
func (r *reader) length(end int64, minSize int64) (int, error) {
	n, err := r.u64()
	if err != nil {
		return 0, err
	}
	if minSize > 0 && n > uint64(end-r.pos)/uint64(minSize) {
		return 0, errTruncated
	}
	return int(n), nil
}

func (r *reader) str(end int64) (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	if int64(n) > end-r.pos {
		return "", errTruncated
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return textenc.Decode(buf, false)
}

// strs reads n strings. Lengths come from the file, so
// slices grow as data is read rather than being allocated
// up front.
func (r *reader) strs(n int, end int64) ([]string, error) {
	res := make([]string, 0, min(n, maxPrealloc))
	for len(res) < n {
		s, err := r.str(end)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

func (r *reader) f32s(n int, end int64) ([]float32, error) {
	if int64(n)*4 > end-r.pos {
		return nil, errTruncated
	}
	res := make([]float32, 0, min(n, maxPrealloc))
	var buf [4096]byte
	for len(res) < n {
		block := buf[:min(len(buf), (n-len(res))*4)]
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, err
		}
		for i := 0; i < len(block); i += 4 {
			res = append(res, math.Float32frombits(binary.LittleEndian.Uint32(block[i:])))
		}
	}
	return res, nil
}

func (r *reader) bytes(n int, end int64) ([]byte, error) {
	if int64(n) > end-r.pos {
		return nil, errTruncated
	}
	buf, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, err
	}
	if len(buf) < n {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}

func (r *reader) pad() error {
	return r.skip(padding(r.pos))
}

func (r *reader) skip(n int64) error {
	if n == 0 {
		return nil
	}
	if s, ok := r.r.(io.Seeker); ok {
		if _, err := s.Seek(n, io.SeekCurrent); err != nil {
			return err
		}
		r.pos += n
		return nil
	}
	_, err := io.CopyN(io.Discard, r, n)
	return err
}

func (r *reader) seekTo(pos int64) error {
	if pos < r.pos {
		return errors.New("chunk overran its declared length")
	}
	return r.skip(pos - r.pos)
}

// writer tracks the absolute position in the output and
// keeps the first error it encounters.
type writer struct {
	w   io.Writer
	pos int64
	err error
}

func (w *writer) raw(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.pos += int64(n)
	w.err = err
}

func (w *writer) u32(x uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], x)
	w.raw(buf[:])
}

func (w *writer) u64(x uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	w.raw(buf[:])
}

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.raw([]byte(s))
}

func (w *writer) f32s(data []float32) {
	buf := make([]byte, len(data)*4)
	for i, x := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	w.raw(buf)
}

func (w *writer) zeros(n int64) {
	w.raw(make([]byte, n))
}

func strsSize(strs []string) int64 {
	var res int64
	for _, s := range strs {
		res += 4 + int64(len(s))
	}
	return res
}
