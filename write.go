package wordvecs

import (
	"fmt"
	"io"
	"os"

	"github.com/unixpickle/essentials"
	"github.com/unixpickle/wordvecs/fifu"
	"github.com/unixpickle/wordvecs/text"
	"github.com/unixpickle/wordvecs/vocab"
	"github.com/unixpickle/wordvecs/word2vec"
)

// Write encodes the model in the given format.
//
// NativeBinary keeps the whole model.
// Word2VecBinary, PlainText and PlainTextWithDims only keep
// the words and their rows, dropping subwords, metadata
// and norms; they fail for a model without words.
// FloretText is only supported for floret models.
// Other formats fail with ErrUnsupportedFormat.
func (m *Model) Write(w io.Writer, format Format) error {
	switch format {
	case NativeBinary:
		return fifu.Write(w, &fifu.Embeddings{
			Vocab:    m.vocab,
			Storage:  m.storage,
			Metadata: m.metadata,
			Norms:    m.norms,
		})
	case FloretText:
		v, ok := m.vocab.(*vocab.Floret)
		if !ok {
			return fmt.Errorf("%w: cannot write %s without a floret vocabulary",
				ErrUnsupportedFormat, format)
		}
		return text.WriteFloret(w, v.Params(), m.storage)
	case Word2VecBinary, PlainText, PlainTextWithDims:
		if m.WordsLen() == 0 {
			return fmt.Errorf("%w: cannot write %s for a model without words",
				ErrUnsupportedFormat, format)
		}
	}
	switch format {
	case Word2VecBinary:
		return word2vec.Write(w, m.vocab.Words(), m.storage)
	case PlainText:
		return text.WriteText(w, m.vocab.Words(), m.storage)
	case PlainTextWithDims:
		return text.WriteTextDims(w, m.vocab.Words(), m.storage)
	}
	return fmt.Errorf("%w: cannot write %s", ErrUnsupportedFormat, format)
}

// Save writes the model to a file.
func (m *Model) Save(path string, format Format) (err error) {
	defer essentials.AddCtxTo("save model", &err)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(f, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
