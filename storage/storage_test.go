package storage

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/exp/mmap"
)

func TestArrayEmbedding(t *testing.T) {
	a := NewArray(3, 2, []float32{1, 2, 3, 4, 5, 6})
	if rows, cols := a.Shape(); rows != 3 || cols != 2 {
		t.Fatalf("unexpected shape %dx%d", rows, cols)
	}
	row := a.Embedding(1)
	if !reflect.DeepEqual(row, []float32{3, 4}) {
		t.Errorf("expected [3 4] but got %v", row)
	}

	// Modifying the result must not affect the storage.
	row[0] = 100
	if actual := a.Embedding(1); actual[0] != 3 {
		t.Error("Embedding returned a view of the storage")
	}
}

func TestArrayEmbeddings(t *testing.T) {
	a := NewArray(3, 2, []float32{1, 2, 3, 4, 5, 6})
	mat := a.Embeddings(1, 3)
	if mat.Rows != 2 || mat.Cols != 2 {
		t.Fatalf("unexpected shape %dx%d", mat.Rows, mat.Cols)
	}
	if data := mat.Data.Data().([]float32); !reflect.DeepEqual(data, []float32{3, 4, 5, 6}) {
		t.Errorf("unexpected data %v", data)
	}
}

func TestArrayOutOfRange(t *testing.T) {
	a := NewArray(2, 2, []float32{1, 2, 3, 4})
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	a.Embedding(2)
}

func TestMmap(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	buf := make([]byte, 3+len(data)*4)
	for i, x := range data {
		binary.LittleEndian.PutUint32(buf[3+i*4:], math.Float32bits(x))
	}
	path := filepath.Join(t.TempDir(), "matrix")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := mmap.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMmap(r, 3, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if row := m.Embedding(2); !reflect.DeepEqual(row, []float32{5, 6}) {
		t.Errorf("expected [5 6] but got %v", row)
	}
	mat := m.Embeddings(0, 2)
	if data := mat.Data.Data().([]float32); !reflect.DeepEqual(data, []float32{1, 2, 3, 4}) {
		t.Errorf("unexpected data %v", data)
	}
}

func TestMmapTooShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix")
	if err := os.WriteFile(path, make([]byte, 12), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := mmap.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := NewMmap(r, 0, 2, 2); err == nil {
		t.Error("expected error")
	}
}

func TestQuantized(t *testing.T) {
	q := &Quantized{
		Quantizers: [][]float32{
			{0, 0, 1, 1},
			{2, 2, 3, 3},
		},
		NumCentroids: 2,
		Codes:        []byte{0, 1, 1, 0},
		Cols:         4,
	}
	if err := q.Validate(); err != nil {
		t.Fatal(err)
	}
	if rows, cols := q.Shape(); rows != 2 || cols != 4 {
		t.Fatalf("unexpected shape %dx%d", rows, cols)
	}
	if row := q.Embedding(0); !reflect.DeepEqual(row, []float32{0, 0, 3, 3}) {
		t.Errorf("unexpected row 0: %v", row)
	}
	if row := q.Embedding(1); !reflect.DeepEqual(row, []float32{1, 1, 2, 2}) {
		t.Errorf("unexpected row 1: %v", row)
	}

	q.Norms = []float32{2, 0.5}
	if row := q.Embedding(1); !reflect.DeepEqual(row, []float32{0.5, 0.5, 1, 1}) {
		t.Errorf("unexpected scaled row: %v", row)
	}
}

func TestQuantizedProjection(t *testing.T) {
	// Swap the two dimensions.
	q := &Quantized{
		Quantizers:   [][]float32{{1, 2}},
		NumCentroids: 1,
		Projection:   []float32{0, 1, 1, 0},
		Codes:        []byte{0},
		Cols:         2,
	}
	if err := q.Validate(); err != nil {
		t.Fatal(err)
	}
	if row := q.Embedding(0); !reflect.DeepEqual(row, []float32{2, 1}) {
		t.Errorf("expected [2 1] but got %v", row)
	}
	mat := q.Embeddings(0, 1)
	if data := mat.Data.Data().([]float32); !reflect.DeepEqual(data, []float32{2, 1}) {
		t.Errorf("unexpected data %v", data)
	}
}

func TestQuantizedValidate(t *testing.T) {
	q := &Quantized{
		Quantizers:   [][]float32{{1, 2}},
		NumCentroids: 1,
		Codes:        []byte{1},
		Cols:         2,
	}
	if q.Validate() == nil {
		t.Error("expected out of range code to be rejected")
	}
}
