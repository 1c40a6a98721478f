package storage

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"golang.org/x/exp/mmap"
)

// Mmap is a Storage backed by a memory-mapped file.
//
// Rows are decoded from the mapping when they are read.
// The mapping must stay open for as long as the Mmap is
// used; reading from a closed Mmap panics.
type Mmap struct {
	reader *mmap.ReaderAt
	offset int64
	rows   int
	cols   int
}

// NewMmap creates an Mmap for a little-endian float32
// matrix starting at offset in the mapping.
//
// The Mmap takes ownership of r and closes it in Close.
func NewMmap(r *mmap.ReaderAt, offset int64, rows, cols int) (*Mmap, error) {
	size := int64(rows) * int64(cols) * 4
	if offset < 0 || offset+size > int64(r.Len()) {
		return nil, errors.New("mmap: matrix extends past end of file")
	}
	return &Mmap{reader: r, offset: offset, rows: rows, cols: cols}, nil
}

// Shape returns the dimensions of the matrix.
func (m *Mmap) Shape() (rows, cols int) {
	return m.rows, m.cols
}

// Embedding reads a row from the mapping.
func (m *Mmap) Embedding(idx int) []float32 {
	checkRange(m, idx, idx+1)
	return m.read(idx, idx+1)
}

// Embeddings reads a range of rows from the mapping.
func (m *Mmap) Embeddings(start, end int) *anyvec.Matrix {
	checkRange(m, start, end)
	return &anyvec.Matrix{
		Data: anyvec32.DefaultCreator{}.MakeVectorData(m.read(start, end)),
		Rows: end - start,
		Cols: m.cols,
	}
}

// Close unmaps the file.
func (m *Mmap) Close() error {
	return m.reader.Close()
}

func (m *Mmap) read(start, end int) []float32 {
	buf := make([]byte, (end-start)*m.cols*4)
	off := m.offset + int64(start)*int64(m.cols)*4
	if _, err := m.reader.ReadAt(buf, off); err != nil {
		panic("mmap: read rows: " + err.Error())
	}
	res := make([]float32, len(buf)/4)
	for i := range res {
		res[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return res
}
