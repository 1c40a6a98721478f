// Package storage implements the matrices which hold the
// rows of an embedding model.
package storage

import "github.com/unixpickle/anyvec"

// Storage is a read-only matrix of embeddings.
//
// Implementations must be safe to read from multiple
// Goroutines at once.
type Storage interface {
	// Shape returns the number of rows and the number of
	// columns (the embedding dimensionality).
	Shape() (rows, cols int)

	// Embedding returns a copy of the given row.
	Embedding(idx int) []float32

	// Embeddings materializes the rows in the range
	// [start, end) as a matrix.
	//
	// The caller must not modify the resulting matrix.
	Embeddings(start, end int) *anyvec.Matrix
}

func checkRange(s Storage, start, end int) {
	rows, _ := s.Shape()
	if start < 0 || end > rows || start > end {
		panic("row range out of bounds")
	}
}
