package word2vec

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/wordvecs/storage"
)

// Write writes words and their rows in the binary word2vec
// format.
//
// The i-th word is stored with the i-th row of s, so s
// must have at least len(words) rows.
func Write(w io.Writer, words []string, s storage.Storage) (err error) {
	defer essentials.AddCtxTo("write word2vec embeddings", &err)

	rows, cols := s.Shape()
	if rows < len(words) {
		return fmt.Errorf("%d words but only %d rows", len(words), rows)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", len(words), cols); err != nil {
		return err
	}
	buf := make([]byte, cols*4)
	for i, word := range words {
		for j, x := range s.Embedding(i) {
			binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(x))
		}
		bw.WriteString(word)
		bw.WriteByte(' ')
		bw.Write(buf)
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
