// Package word2vec reads and writes embeddings in the
// binary format of the original word2vec tool.
//
// A file starts with a text header of the form
// "<words> <dims>\n".
// Every word follows, terminated by a space and followed by
// dims little-endian float32 values and a newline.
package word2vec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/wordvecs/internal/textenc"
	"github.com/unixpickle/wordvecs/storage"
	"github.com/unixpickle/wordvecs/vocab"
)

// MaxDims is the largest dimensionality accepted in a
// header.
const MaxDims = 1 << 20

const maxPrealloc = 1 << 16

// Read reads a binary word2vec model.
//
// If lossy is true, words which are not valid UTF-8 are
// repaired with replacement characters rather than
// causing an error.
func Read(r io.Reader, lossy bool) (v *vocab.Simple, s *storage.Array, err error) {
	defer essentials.AddCtxTo("read word2vec embeddings", &err)

	br := bufio.NewReader(r)
	rows, cols, err := readHeader(br)
	if err != nil {
		return nil, nil, essentials.AddCtx("read header", err)
	}

	// Rows are appended as they are read, so a header
	// cannot force a large allocation.
	words := make([]string, 0, min(rows, maxPrealloc))
	data := make([]float32, 0, min(rows*cols, maxPrealloc))
	buf := make([]byte, cols*4)
	for i := 0; i < rows; i++ {
		word, err := br.ReadBytes(' ')
		if err != nil {
			return nil, nil, essentials.AddCtx(fmt.Sprintf("read word %d", i), err)
		}
		// The newline after the previous vector is not
		// always present, so it is stripped with the
		// delimiter.
		word = bytes.TrimSpace(word)
		decoded, err := textenc.Decode(word, lossy)
		if err != nil {
			return nil, nil, essentials.AddCtx(fmt.Sprintf("decode word %d", i), err)
		}
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, nil, essentials.AddCtx(fmt.Sprintf("read vector %q", decoded), err)
		}
		words = append(words, decoded)
		for j := 0; j < cols; j++ {
			data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(buf[j*4:])))
		}
	}

	v, err = vocab.NewSimple(words)
	if err != nil {
		return nil, nil, err
	}
	return v, storage.NewArray(rows, cols, data), nil
}

func readHeader(r *bufio.Reader) (rows, cols int, err error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("malformed header: %q", strings.TrimSpace(line))
	}
	rows, err = strconv.Atoi(fields[0])
	if err != nil || rows < 0 {
		return 0, 0, fmt.Errorf("invalid word count: %q", fields[0])
	}
	cols, err = strconv.Atoi(fields[1])
	if err != nil || cols < 0 {
		return 0, 0, fmt.Errorf("invalid dimensionality: %q", fields[1])
	}
	if rows > math.MaxInt32 || cols > MaxDims || (cols > 0 && rows > math.MaxInt32/cols) {
		return 0, 0, fmt.Errorf("implausible shape: %dx%d", rows, cols)
	}
	return rows, cols, nil
}
