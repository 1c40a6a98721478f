package wordvecs

import (
	"strings"
	"unicode"
)

// PunctuationMode is a way to deal with punctuation and
// other symbols when tokenizing strings.
type PunctuationMode int

const (
	// Treat each piece of punctuation as its own token.
	SeparatePunctuation PunctuationMode = iota

	// Remove all punctuation.
	DropPunctuation

	// Treat punctuation as just another character.
	IncludePunctuation
)

// A Tokenizer splits text into the words which are looked
// up in a model.
//
// By default, a Tokenizer keeps the case of the text,
// since most pretrained vocabularies are case sensitive,
// and treats punctuation as its own token.
type Tokenizer struct {
	// PunctuationMode is used to decide how to treat
	// punctuation.
	PunctuationMode PunctuationMode

	// Lowercase, if true, converts every token to lower
	// case.
	Lowercase bool
}

// Tokenize produces tokens for the string.
func (t *Tokenizer) Tokenize(s string) []string {
	var res []string
	for _, field := range strings.Fields(s) {
		if t.Lowercase {
			field = strings.ToLower(field)
		}
		res = t.appendTokens(res, field)
	}
	return res
}

func (t *Tokenizer) appendTokens(res []string, field string) []string {
	switch t.PunctuationMode {
	case SeparatePunctuation:
		start := 0
		for i, ch := range field {
			if unicode.IsPunct(ch) {
				if i > start {
					res = append(res, field[start:i])
				}
				end := i + len(string(ch))
				res = append(res, field[i:end])
				start = end
			}
		}
		if start < len(field) {
			res = append(res, field[start:])
		}
		return res
	case DropPunctuation:
		field = strings.Map(func(ch rune) rune {
			if unicode.IsPunct(ch) {
				return -1
			}
			return ch
		}, field)
		if field != "" {
			res = append(res, field)
		}
		return res
	case IncludePunctuation:
		return append(res, field)
	}
	panic("unknown punctuation mode")
}
