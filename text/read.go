// Package text reads and writes embeddings stored as
// whitespace-separated text.
//
// Every line holds a word followed by its vector
// components.
// The "dims" variant starts with a "<words> <dims>"
// header, as written by word2vec and GloVe tools.
// The floret variant stores hashed subword rows instead of
// words and starts with the floret hyperparameters.
package text

import (
	"bufio"
	"errors"
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

// ReadText reads embeddings without a header.
//
// The dimensionality is taken from the first line, and
// every other line must agree with it.
// Blank lines are ignored.
func ReadText(r io.Reader, lossy bool) (v *vocab.Simple, s *storage.Array, err error) {
	defer essentials.AddCtxTo("read text embeddings", &err)
	lr := newLineReader(r, lossy)
	return readRows(lr, -1, -1)
}

// ReadTextDims reads embeddings which start with a
// "<words> <dims>" header.
func ReadTextDims(r io.Reader, lossy bool) (v *vocab.Simple, s *storage.Array, err error) {
	defer essentials.AddCtxTo("read text embeddings with dims", &err)
	lr := newLineReader(r, lossy)
	header, err := lr.fields()
	if err != nil {
		return nil, nil, essentials.AddCtx("read header", err)
	}
	nums, err := parseInts(header, 2)
	if err != nil {
		return nil, nil, essentials.AddCtx("parse header", err)
	}
	if nums[1] > MaxDims {
		return nil, nil, fmt.Errorf("implausible dimensionality: %d", nums[1])
	}
	return readRows(lr, nums[0], nums[1])
}

func readRows(lr *lineReader, rows, cols int) (*vocab.Simple, *storage.Array, error) {
	var words []string
	var data []float32
	for rows < 0 || len(words) < rows {
		fields, err := lr.fields()
		if err == io.EOF {
			if rows >= 0 {
				return nil, nil, fmt.Errorf("expected %d words but found %d", rows, len(words))
			}
			break
		} else if err != nil {
			return nil, nil, err
		}
		if cols < 0 {
			cols = len(fields) - 1
		}
		if len(fields)-1 != cols {
			return nil, nil, fmt.Errorf("line %d: expected %d components but got %d",
				lr.line, cols, len(fields)-1)
		}
		data, err = appendFloats(data, fields[1:])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
		words = append(words, fields[0])
	}
	if cols < 0 {
		cols = 0
	}

	v, err := vocab.NewSimple(words)
	if err != nil {
		return nil, nil, err
	}
	return v, storage.NewArray(len(words), cols, data), nil
}

// ReadFloret reads a floret text model.
//
// The header holds the number of buckets, the
// dimensionality, the minimum and maximum n-gram lengths,
// the number of hashes per n-gram, the hash seed and the
// begin and end of word markers.
// Each following line holds a bucket index and its vector;
// buckets must be listed in order.
func ReadFloret(r io.Reader) (v *vocab.Floret, s *storage.Array, err error) {
	defer essentials.AddCtxTo("read floret embeddings", &err)

	lr := newLineReader(r, false)
	header, err := lr.fields()
	if err != nil {
		return nil, nil, essentials.AddCtx("read header", err)
	}
	if len(header) != 8 {
		return nil, nil, fmt.Errorf("expected 8 header fields but got %d", len(header))
	}
	nums, err := parseInts(header[:6], 6)
	if err != nil {
		return nil, nil, essentials.AddCtx("parse header", err)
	}
	buckets, cols := nums[0], nums[1]
	if buckets > math.MaxInt32 || cols > MaxDims {
		return nil, nil, fmt.Errorf("implausible shape: %dx%d", buckets, cols)
	}
	if nums[4] < 1 || nums[4] > 4 {
		return nil, nil, fmt.Errorf("invalid hash count: %d", nums[4])
	}
	seed, err := strconv.ParseUint(header[5], 10, 32)
	if err != nil {
		return nil, nil, essentials.AddCtx("parse hash seed", err)
	}
	params := vocab.FloretParams{
		Buckets:  buckets,
		MinN:     nums[2],
		MaxN:     nums[3],
		NumHash:  nums[4],
		HashSeed: uint32(seed),
		BOW:      header[6],
		EOW:      header[7],
	}

	data := make([]float32, 0, min(buckets*cols, maxPrealloc))
	for i := 0; i < buckets; i++ {
		fields, err := lr.fields()
		if err == io.EOF {
			return nil, nil, fmt.Errorf("expected %d buckets but found %d", buckets, i)
		} else if err != nil {
			return nil, nil, err
		}
		if len(fields)-1 != cols {
			return nil, nil, fmt.Errorf("line %d: expected %d components but got %d",
				lr.line, cols, len(fields)-1)
		}
		if idx, err := strconv.Atoi(fields[0]); err != nil || idx != i {
			return nil, nil, fmt.Errorf("line %d: expected bucket %d but got %q",
				lr.line, i, fields[0])
		}
		data, err = appendFloats(data, fields[1:])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lr.line, err)
		}
	}
	return vocab.NewFloret(params), storage.NewArray(buckets, cols, data), nil
}

// lineReader splits input into lines of whitespace
// separated fields, skipping blank lines.
type lineReader struct {
	r     *bufio.Reader
	lossy bool
	line  int
}

func newLineReader(r io.Reader, lossy bool) *lineReader {
	return &lineReader{r: bufio.NewReader(r), lossy: lossy}
}

// fields returns the fields of the next non-blank line,
// or io.EOF if there are none.
func (l *lineReader) fields() ([]string, error) {
	for {
		raw, err := l.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if len(raw) == 0 && err == io.EOF {
			return nil, io.EOF
		}
		l.line++
		line, decodeErr := textenc.Decode(raw, l.lossy)
		if decodeErr != nil {
			return nil, fmt.Errorf("line %d: %w", l.line, decodeErr)
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			return fields, nil
		}
		if err == io.EOF {
			return nil, io.EOF
		}
	}
}

func parseInts(fields []string, n int) ([]int, error) {
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d fields but got %d", n, len(fields))
	}
	res := make([]int, n)
	for i, field := range fields {
		x, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		if x < 0 {
			return nil, errors.New("negative header value: " + field)
		}
		res[i] = x
	}
	return res, nil
}

func appendFloats(data []float32, fields []string) ([]float32, error) {
	for _, field := range fields {
		x, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return nil, err
		}
		data = append(data, float32(x))
	}
	return data, nil
}
