package storage

import (
	"errors"

	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
)

// Quantized is a Storage of product-quantized rows.
//
// Each row is split into equally sized subvectors, and
// every subvector is stored as the index of a centroid
// from its subquantizer.
// Rows are reconstructed when they are read.
type Quantized struct {
	// Quantizers holds one centroid table per subvector.
	// Each table is NumCentroids rows of Cols/len(Quantizers)
	// values, stored row-major.
	Quantizers [][]float32

	// NumCentroids is the number of centroids in each
	// subquantizer.
	NumCentroids int

	// Projection is an optional Cols x Cols rotation which
	// was applied before quantization.
	// The transpose is applied to reconstructed rows.
	Projection []float32

	// Norms optionally scales each reconstructed row.
	Norms []float32

	// Codes holds len(Quantizers) centroid indices per row.
	Codes []byte

	// Cols is the dimensionality of reconstructed rows.
	Cols int
}

// Validate checks that the fields of q are consistent.
func (q *Quantized) Validate() error {
	if len(q.Quantizers) == 0 || q.Cols%len(q.Quantizers) != 0 {
		return errors.New("quantized: dims not divisible by subquantizer count")
	}
	subDims := q.Cols / len(q.Quantizers)
	for _, table := range q.Quantizers {
		if len(table) != q.NumCentroids*subDims {
			return errors.New("quantized: subquantizer has wrong size")
		}
	}
	if len(q.Codes)%len(q.Quantizers) != 0 {
		return errors.New("quantized: truncated codes")
	}
	if q.NumCentroids > 256 {
		return errors.New("quantized: too many centroids for byte codes")
	}
	if q.Projection != nil && len(q.Projection) != q.Cols*q.Cols {
		return errors.New("quantized: projection has wrong size")
	}
	if q.Norms != nil && len(q.Norms) != len(q.Codes)/len(q.Quantizers) {
		return errors.New("quantized: norm count does not match rows")
	}
	for _, code := range q.Codes {
		if int(code) >= q.NumCentroids {
			return errors.New("quantized: code out of range")
		}
	}
	return nil
}

// Shape returns the dimensions of the reconstructed
// matrix.
func (q *Quantized) Shape() (rows, cols int) {
	return len(q.Codes) / len(q.Quantizers), q.Cols
}

// Embedding reconstructs a row.
func (q *Quantized) Embedding(idx int) []float32 {
	checkRange(q, idx, idx+1)
	res := make([]float32, q.Cols)
	q.reconstruct(idx, res)
	return res
}

// Embeddings reconstructs a range of rows.
func (q *Quantized) Embeddings(start, end int) *anyvec.Matrix {
	checkRange(q, start, end)
	data := make([]float32, (end-start)*q.Cols)
	for i := start; i < end; i++ {
		offset := (i - start) * q.Cols
		q.reconstruct(i, data[offset:offset+q.Cols])
	}
	return &anyvec.Matrix{
		Data: anyvec32.DefaultCreator{}.MakeVectorData(data),
		Rows: end - start,
		Cols: q.Cols,
	}
}

func (q *Quantized) reconstruct(idx int, out []float32) {
	numSub := len(q.Quantizers)
	subDims := q.Cols / numSub
	codes := q.Codes[idx*numSub : (idx+1)*numSub]

	recon := out
	if q.Projection != nil {
		recon = make([]float32, q.Cols)
	}
	for i, code := range codes {
		centroid := q.Quantizers[i][int(code)*subDims : (int(code)+1)*subDims]
		copy(recon[i*subDims:], centroid)
	}

	if q.Projection != nil {
		for j := range out {
			var sum float32
			row := q.Projection[j*q.Cols : (j+1)*q.Cols]
			for k, x := range recon {
				sum += x * row[k]
			}
			out[j] = sum
		}
	}

	if q.Norms != nil {
		norm := q.Norms[idx]
		for j := range out {
			out[j] *= norm
		}
	}
}
