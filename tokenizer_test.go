package wordvecs

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	text := "Hello, world! It's  über-cool."
	cases := []struct {
		tokenizer Tokenizer
		expected  []string
	}{
		{
			Tokenizer{},
			[]string{"Hello", ",", "world", "!", "It", "'", "s", "über", "-", "cool", "."},
		},
		{
			Tokenizer{PunctuationMode: DropPunctuation, Lowercase: true},
			[]string{"hello", "world", "its", "übercool"},
		},
		{
			Tokenizer{PunctuationMode: IncludePunctuation},
			[]string{"Hello,", "world!", "It's", "über-cool."},
		},
	}
	for i, c := range cases {
		actual := c.tokenizer.Tokenize(text)
		if !reflect.DeepEqual(actual, c.expected) {
			t.Errorf("case %d: expected %q but got %q", i, c.expected, actual)
		}
	}
}

func TestTokenizeOnlyPunctuation(t *testing.T) {
	tok := &Tokenizer{PunctuationMode: DropPunctuation}
	if actual := tok.Tokenize("... !"); len(actual) != 0 {
		t.Errorf("expected no tokens but got %q", actual)
	}
}
