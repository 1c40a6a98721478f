package storage

import (
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
)

// Array is a Storage which keeps every row in memory.
type Array struct {
	// Vectors contains one row per embedding.
	Vectors *anyvec.Matrix
}

// NewArray creates an Array from row-major data.
//
// The Array takes ownership of data, which must have
// exactly rows*cols entries.
func NewArray(rows, cols int, data []float32) *Array {
	if len(data) != rows*cols {
		panic("data size does not match shape")
	}
	return &Array{
		Vectors: &anyvec.Matrix{
			Data: anyvec32.DefaultCreator{}.MakeVectorData(data),
			Rows: rows,
			Cols: cols,
		},
	}
}

// Shape returns the dimensions of the matrix.
func (a *Array) Shape() (rows, cols int) {
	return a.Vectors.Rows, a.Vectors.Cols
}

// Embedding returns a copy of a row.
func (a *Array) Embedding(idx int) []float32 {
	checkRange(a, idx, idx+1)
	row := extractRow(a.Vectors, idx)
	return append([]float32(nil), row.Data().([]float32)...)
}

// Embeddings returns a view of a range of rows.
func (a *Array) Embeddings(start, end int) *anyvec.Matrix {
	checkRange(a, start, end)
	cols := a.Vectors.Cols
	return &anyvec.Matrix{
		Data: a.Vectors.Data.Slice(start*cols, end*cols),
		Rows: end - start,
		Cols: cols,
	}
}

func extractRow(mat *anyvec.Matrix, row int) anyvec.Vector {
	idx := mat.Cols * row
	return mat.Data.Slice(idx, idx+mat.Cols)
}
