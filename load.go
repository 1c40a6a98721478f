package wordvecs

import (
	"io"
	"os"

	"github.com/unixpickle/wordvecs/fasttext"
	"github.com/unixpickle/wordvecs/fifu"
	"github.com/unixpickle/wordvecs/text"
	"github.com/unixpickle/wordvecs/word2vec"
)

// Load reads a model from a file.
//
// With NativeBinaryMmap, the embedding matrix stays in the
// file and the returned Model holds the mapping until it is
// closed.
// Every other format reads the whole model into memory.
//
// On failure, the error is a *LoadError and no resources
// are left open.
func Load(path string, format Format) (model *Model, err error) {
	defer func() {
		if err != nil {
			err = &LoadError{Path: path, Format: format, Err: err}
		}
	}()

	if format == NativeBinaryMmap {
		e, err := fifu.Mmap(path)
		if err != nil {
			return nil, err
		}
		model, err = NewModel(e.Vocab, e.Storage, e.Metadata, e.Norms)
		if err != nil {
			if c, ok := e.Storage.(io.Closer); ok {
				c.Close()
			}
			return nil, err
		}
		return model, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f, format)
}

// ReadModel reads a model from r.
//
// NativeBinaryMmap is not supported, since it needs a
// file.
func ReadModel(r io.Reader, format Format) (*Model, error) {
	return read(r, format)
}

func read(r io.Reader, format Format) (*Model, error) {
	switch format {
	case NativeBinary:
		e, err := fifu.Read(r)
		if err != nil {
			return nil, err
		}
		return NewModel(e.Vocab, e.Storage, e.Metadata, e.Norms)
	case Word2VecBinary, Word2VecBinaryLossy:
		v, s, err := word2vec.Read(r, format.Lossy())
		if err != nil {
			return nil, err
		}
		return NewModel(v, s, nil, nil)
	case FastTextBinary, FastTextBinaryLossy:
		v, s, err := fasttext.Read(r, format.Lossy())
		if err != nil {
			return nil, err
		}
		return NewModel(v, s, nil, nil)
	case PlainText, PlainTextLossy:
		v, s, err := text.ReadText(r, format.Lossy())
		if err != nil {
			return nil, err
		}
		return NewModel(v, s, nil, nil)
	case PlainTextWithDims, PlainTextWithDimsLossy:
		v, s, err := text.ReadTextDims(r, format.Lossy())
		if err != nil {
			return nil, err
		}
		return NewModel(v, s, nil, nil)
	case FloretText:
		v, s, err := text.ReadFloret(r)
		if err != nil {
			return nil, err
		}
		return NewModel(v, s, nil, nil)
	}
	return nil, ErrUnsupportedFormat
}
