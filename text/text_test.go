package text

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/unixpickle/wordvecs/storage"
	"github.com/unixpickle/wordvecs/vocab"
)

func TestReadText(t *testing.T) {
	input := "the 1 2 3\nquick -0.5 1e-3 4\n\nfox 0 0 0\n"
	v, s, err := ReadText(strings.NewReader(input), false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Words(), []string{"the", "quick", "fox"}) {
		t.Errorf("unexpected words %v", v.Words())
	}
	if rows, cols := s.Shape(); rows != 3 || cols != 3 {
		t.Fatalf("unexpected shape %dx%d", rows, cols)
	}
	if !reflect.DeepEqual(s.Embedding(1), []float32{-0.5, 1e-3, 4}) {
		t.Errorf("unexpected row %v", s.Embedding(1))
	}
}

func TestReadTextNoTrailingNewline(t *testing.T) {
	v, s, err := ReadText(strings.NewReader("a 1\nb 2"), false)
	if err != nil {
		t.Fatal(err)
	}
	if v.WordsLen() != 2 || s.Embedding(1)[0] != 2 {
		t.Errorf("unexpected result %v %v", v.Words(), s.Embedding(1))
	}
}

func TestReadTextErrors(t *testing.T) {
	inputs := []string{
		"a 1 2\nb 1\n",
		"a 1 x\n",
		"a 1\na 2\n",
	}
	for _, input := range inputs {
		if _, _, err := ReadText(strings.NewReader(input), false); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}

	dimsInputs := []string{
		"",
		"2\n",
		"2 99999999999\n",
		"99999999999999 3\na 1 2 3\n",
		"1 3\na 1 2\n",
	}
	for _, input := range dimsInputs {
		if _, _, err := ReadTextDims(strings.NewReader(input), false); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestLossy(t *testing.T) {
	input := "caf\xe9 1 2\nok 3 4\n"
	if _, _, err := ReadText(strings.NewReader(input), false); err == nil {
		t.Error("expected strict read to fail")
	}
	v, _, err := ReadText(strings.NewReader(input), true)
	if err != nil {
		t.Fatal(err)
	}
	if w := v.Word(0); w != "caf�" {
		t.Errorf("unexpected word %q", w)
	}

	dimsInput := "1 1\nx\xff 1\n"
	if _, _, err := ReadTextDims(strings.NewReader(dimsInput), false); err == nil {
		t.Error("expected strict read to fail")
	}
	if _, _, err := ReadTextDims(strings.NewReader(dimsInput), true); err != nil {
		t.Error(err)
	}
}

func TestReadTextDims(t *testing.T) {
	v, s, err := ReadTextDims(strings.NewReader("2 2\na 1 2\nb 3 4\n"), false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Words(), []string{"a", "b"}) {
		t.Errorf("unexpected words %v", v.Words())
	}
	if !reflect.DeepEqual(s.Embedding(1), []float32{3, 4}) {
		t.Errorf("unexpected row %v", s.Embedding(1))
	}

	inputs := []string{
		"3 2\na 1 2\nb 3 4\n",
		"2 3\na 1 2\nb 3 4\n",
		"a 1 2\n",
		"",
	}
	for _, input := range inputs {
		if _, _, err := ReadTextDims(strings.NewReader(input), false); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	words := []string{"x", "y"}
	s := storage.NewArray(2, 3, []float32{0.1, -2, 3e7, 1.0 / 3, 0, 5})

	var buf bytes.Buffer
	if err := WriteText(&buf, words, s); err != nil {
		t.Fatal(err)
	}
	v, actual, err := ReadText(&buf, false)
	if err != nil {
		t.Fatal(err)
	}
	checkResult(t, v, actual, words, s)

	buf.Reset()
	if err := WriteTextDims(&buf, words, s); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "2 3\n") {
		t.Errorf("unexpected header in %q", buf.String())
	}
	v, actual, err = ReadTextDims(&buf, false)
	if err != nil {
		t.Fatal(err)
	}
	checkResult(t, v, actual, words, s)
}

func TestFloretRoundTrip(t *testing.T) {
	params := vocab.FloretParams{
		Buckets:  3,
		MinN:     3,
		MaxN:     6,
		NumHash:  4,
		HashSeed: 4294967295,
		BOW:      "<",
		EOW:      ">",
	}
	s := storage.NewArray(3, 2, []float32{0.5, -1, 2e-8, 3, 0, 7})

	var buf bytes.Buffer
	if err := WriteFloret(&buf, params, s); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "3 2 3 6 4 4294967295 < >\n0 0.5 -1\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
	v, actual, err := ReadFloret(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if v.Params() != params {
		t.Errorf("expected %+v but got %+v", params, v.Params())
	}
	for i := 0; i < 3; i++ {
		if !reflect.DeepEqual(actual.Embedding(i), s.Embedding(i)) {
			t.Errorf("row %d: expected %v but got %v", i, s.Embedding(i), actual.Embedding(i))
		}
	}

	if err := WriteFloret(&bytes.Buffer{}, params, storage.NewArray(2, 2, make([]float32, 4))); err == nil {
		t.Error("expected error for a bucket count mismatch")
	}
}

func checkResult(t *testing.T, v *vocab.Simple, s *storage.Array, words []string,
	expected storage.Storage) {
	t.Helper()
	if !reflect.DeepEqual(v.Words(), words) {
		t.Errorf("expected words %v but got %v", words, v.Words())
	}
	for i := range words {
		if !reflect.DeepEqual(s.Embedding(i), expected.Embedding(i)) {
			t.Errorf("row %d: expected %v but got %v", i, expected.Embedding(i), s.Embedding(i))
		}
	}
}

func TestReadFloret(t *testing.T) {
	input := "3 2 4 5 2 2166136261 < >\n0 1 2\n1 3 4\n2 5 6\n"
	v, s, err := ReadFloret(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	expected := vocab.FloretParams{
		Buckets:  3,
		MinN:     4,
		MaxN:     5,
		NumHash:  2,
		HashSeed: 2166136261,
		BOW:      "<",
		EOW:      ">",
	}
	if v.Params() != expected {
		t.Errorf("expected %+v but got %+v", expected, v.Params())
	}
	if !reflect.DeepEqual(s.Embedding(2), []float32{5, 6}) {
		t.Errorf("unexpected row %v", s.Embedding(2))
	}
	for _, i := range v.Idx("hello").Indices {
		if i < 0 || i >= 3 {
			t.Errorf("index %d out of range", i)
		}
	}

	inputs := []string{
		"3 2 4 5 2 0 < >\n0 1 2\n1 3 4\n",
		"2 2 4 5 2 0 < >\n0 1 2\n2 3 4\n",
		"1 2 4 5 9 0 < >\n0 1 2\n",
		"1 2 4 5 2 0 <\n0 1 2\n",
		"99999999999999 300 3 6 2 42 < >\n",
		"1 99999999999 3 6 2 42 < >\n",
		"3000000 300 3 6 2 42 < >\n0 1\n",
	}
	for _, input := range inputs {
		if _, _, err := ReadFloret(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
