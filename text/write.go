package text

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/wordvecs/storage"
	"github.com/unixpickle/wordvecs/vocab"
)

// WriteText writes one line per word, without a header.
//
// The i-th word is stored with the i-th row of s.
func WriteText(w io.Writer, words []string, s storage.Storage) (err error) {
	defer essentials.AddCtxTo("write text embeddings", &err)
	return writeText(w, words, s, false)
}

// WriteTextDims writes one line per word, preceded by a
// "<words> <dims>" header.
func WriteTextDims(w io.Writer, words []string, s storage.Storage) (err error) {
	defer essentials.AddCtxTo("write text embeddings with dims", &err)
	return writeText(w, words, s, true)
}

// WriteFloret writes a floret text model: a header with
// the floret hyperparameters, followed by one line per
// bucket holding its index and vector.
func WriteFloret(w io.Writer, p vocab.FloretParams, s storage.Storage) (err error) {
	defer essentials.AddCtxTo("write floret embeddings", &err)
	rows, cols := s.Shape()
	if rows != p.Buckets {
		return fmt.Errorf("%d buckets but %d rows", p.Buckets, rows)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d %d %d %d %s %s\n", p.Buckets, cols, p.MinN, p.MaxN,
		p.NumHash, p.HashSeed, p.BOW, p.EOW)
	var buf []byte
	for i := 0; i < rows; i++ {
		buf = appendRow(strconv.AppendInt(buf[:0], int64(i), 10), s.Embedding(i))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeText(w io.Writer, words []string, s storage.Storage, dims bool) error {
	rows, cols := s.Shape()
	if rows < len(words) {
		return fmt.Errorf("%d words but only %d rows", len(words), rows)
	}
	bw := bufio.NewWriter(w)
	if dims {
		fmt.Fprintf(bw, "%d %d\n", len(words), cols)
	}
	var buf []byte
	for i, word := range words {
		buf = appendRow(append(buf[:0], word...), s.Embedding(i))
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendRow(buf []byte, vec []float32) []byte {
	for _, x := range vec {
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(x), 'g', -1, 32)
	}
	return append(buf, '\n')
}
