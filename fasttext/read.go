// Package fasttext reads the binary models produced by
// fastText.
//
// Only the input matrix and the dictionary are used.
// Pruned and quantized models are not supported.
package fasttext

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/wordvecs/internal/textenc"
	"github.com/unixpickle/wordvecs/storage"
	"github.com/unixpickle/wordvecs/vocab"
)

const (
	// Magic is the first integer of a fastText model.
	Magic = 793712314

	// Version is the supported model version.
	Version = 12
)

// Entry types in the dictionary.
const (
	entryWord  = 0
	entryLabel = 1
)

const maxPrealloc = 1 << 16

// Args are the training hyperparameters stored in a model.
type Args struct {
	Dims         int32
	WindowSize   int32
	Epoch        int32
	MinCount     int32
	Neg          int32
	WordNGrams   int32
	Loss         int32
	Model        int32
	Buckets      int32
	MinN         int32
	MaxN         int32
	LRUpdateRate int32
	Sampling     float64
}

// Read reads a fastText model.
//
// The rows of the words are replaced by the mean of the
// word's own row and the rows of its n-grams, which is the
// vector fastText itself reports for the word.
func Read(r io.Reader, lossy bool) (v *vocab.Subword, s *storage.Array, err error) {
	defer essentials.AddCtxTo("read fastText model", &err)

	br := bufio.NewReader(r)
	var header [2]int32
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, nil, essentials.AddCtx("read header", err)
	}
	if header[0] != Magic {
		return nil, nil, fmt.Errorf("bad magic: %d", header[0])
	}
	if header[1] != Version {
		return nil, nil, fmt.Errorf("unsupported version: %d", header[1])
	}

	var args Args
	if err := binary.Read(br, binary.LittleEndian, &args); err != nil {
		return nil, nil, essentials.AddCtx("read arguments", err)
	}
	if args.Dims < 0 || args.Buckets < 0 || args.MinN < 0 || args.MaxN < args.MinN {
		return nil, nil, errors.New("invalid arguments")
	}

	words, err := readDictionary(br, lossy)
	if err != nil {
		return nil, nil, essentials.AddCtx("read dictionary", err)
	}

	quantized, err := br.ReadByte()
	if err != nil {
		return nil, nil, essentials.AddCtx("read quantization flag", err)
	}
	if quantized != 0 {
		return nil, nil, errors.New("quantized models are not supported")
	}

	v, err = vocab.NewFastTextVocab(words, int(args.MinN), int(args.MaxN), int(args.Buckets))
	if err != nil {
		return nil, nil, err
	}
	rows, cols := v.VocabLen(), int(args.Dims)
	data, err := readMatrix(br, rows, cols)
	if err != nil {
		return nil, nil, essentials.AddCtx("read input matrix", err)
	}
	precomputeWords(v, data, cols)
	return v, storage.NewArray(rows, cols, data), nil
}

func readDictionary(r *bufio.Reader, lossy bool) ([]string, error) {
	var counts struct {
		Size    int32
		NWords  int32
		NLabels int32
		NTokens int64
		Pruned  int64
	}
	if err := binary.Read(r, binary.LittleEndian, &counts); err != nil {
		return nil, err
	}
	if counts.Pruned > 0 {
		return nil, errors.New("pruned models are not supported")
	}
	if counts.Size < 0 || counts.NWords < 0 || counts.NWords > counts.Size {
		return nil, errors.New("invalid dictionary size")
	}

	words := make([]string, 0, min(int(counts.NWords), maxPrealloc))
	for i := 0; i < int(counts.Size); i++ {
		raw, err := r.ReadBytes(0)
		if err != nil {
			return nil, essentials.AddCtx(fmt.Sprintf("read entry %d", i), err)
		}
		var entry struct {
			Count int64
			Type  int8
		}
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return nil, essentials.AddCtx(fmt.Sprintf("read entry %d", i), err)
		}
		if entry.Type == entryLabel {
			continue
		}
		if entry.Type != entryWord {
			return nil, fmt.Errorf("unknown entry type: %d", entry.Type)
		}
		word, err := textenc.Decode(raw[:len(raw)-1], lossy)
		if err != nil {
			return nil, essentials.AddCtx(fmt.Sprintf("decode entry %d", i), err)
		}
		words = append(words, word)
	}
	if len(words) != int(counts.NWords) {
		return nil, fmt.Errorf("expected %d words but found %d", counts.NWords, len(words))
	}
	return words, nil
}

func readMatrix(r io.Reader, rows, cols int) ([]float32, error) {
	var shape [2]int64
	if err := binary.Read(r, binary.LittleEndian, &shape); err != nil {
		return nil, err
	}
	if shape[0] != int64(rows) || shape[1] != int64(cols) {
		return nil, fmt.Errorf("expected %dx%d matrix but got %dx%d", rows, cols,
			shape[0], shape[1])
	}
	if int64(rows)*int64(cols) > math.MaxInt32 {
		return nil, fmt.Errorf("implausible shape: %dx%d", rows, cols)
	}
	n := rows * cols
	data := make([]float32, 0, min(n, maxPrealloc))
	var buf [4096]byte
	for len(data) < n {
		block := buf[:min(len(buf), (n-len(data))*4)]
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, err
		}
		for i := 0; i < len(block); i += 4 {
			data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(block[i:])))
		}
	}
	return data, nil
}

func precomputeWords(v *vocab.Subword, data []float32, cols int) {
	for i := 0; i < v.WordsLen(); i++ {
		indices := v.SubwordIndices(v.Word(i))
		sum := append([]float32(nil), data[i*cols:(i+1)*cols]...)
		for _, idx := range indices {
			for j, x := range data[idx*cols : (idx+1)*cols] {
				sum[j] += x
			}
		}
		scale := 1 / float32(len(indices)+1)
		row := data[i*cols : (i+1)*cols]
		for j, x := range sum {
			row[j] = x * scale
		}
	}
}
