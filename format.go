package wordvecs

import (
	"fmt"
	"strings"
)

// Format is an on-disk encoding of an embedding model.
//
// Formats are never inferred from file contents or names.
type Format int

const (
	// NativeBinary is the chunked finalfusion format.
	NativeBinary Format = iota

	// NativeBinaryMmap is NativeBinary with the embedding
	// matrix memory mapped rather than read.
	NativeBinaryMmap

	Word2VecBinary
	Word2VecBinaryLossy
	FastTextBinary
	FastTextBinaryLossy
	PlainText
	PlainTextLossy
	PlainTextWithDims
	PlainTextWithDimsLossy
	FloretText
)

var formatNames = map[Format]string{
	NativeBinary:           "native_binary",
	NativeBinaryMmap:       "native_binary_mmap",
	Word2VecBinary:         "word2vec_binary",
	Word2VecBinaryLossy:    "word2vec_binary_lossy",
	FastTextBinary:         "fasttext_binary",
	FastTextBinaryLossy:    "fasttext_binary_lossy",
	PlainText:              "plain_text",
	PlainTextLossy:         "plain_text_lossy",
	PlainTextWithDims:      "plain_text_with_dims",
	PlainTextWithDimsLossy: "plain_text_with_dims_lossy",
	FloretText:             "floret_text",
}

// formatSynonyms are the alternative names accepted by
// ParseFormat, after normalization.
var formatSynonyms = map[string]Format{
	"fifu":           NativeBinary,
	"embeddings":     NativeBinary,
	"mmapembeddings": NativeBinaryMmap,
	"word2vec":       Word2VecBinary,
	"fasttext":       FastTextBinary,
	"fasttextlossy":  FastTextBinaryLossy,
	"text":           PlainText,
	"textlossy":      PlainTextLossy,
	"textdims":       PlainTextWithDims,
	"textdimslossy":  PlainTextWithDimsLossy,
	"floret":         FloretText,
}

// String returns the canonical name of the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Lossy reports whether the format repairs invalid UTF-8
// instead of failing.
func (f Format) Lossy() bool {
	switch f {
	case Word2VecBinaryLossy, FastTextBinaryLossy, PlainTextLossy, PlainTextWithDimsLossy:
		return true
	}
	return false
}

// ParseFormat finds the format with the given name.
//
// Names are matched case-insensitively, ignoring
// underscores and hyphens, so "PlainTextWithDims" and
// "plain_text_with_dims" are equivalent.
// The names used by finalfusion tools, such as "fifu" or
// "word2vec", are accepted as synonyms.
func ParseFormat(name string) (Format, error) {
	key := normalizeFormatName(name)
	for f, canonical := range formatNames {
		if normalizeFormatName(canonical) == key {
			return f, nil
		}
	}
	if f, ok := formatSynonyms[key]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

func normalizeFormatName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "")
	return strings.ReplaceAll(name, "-", "")
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if _, ok := formatNames[f]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
