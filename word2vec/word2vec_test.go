package word2vec

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/unixpickle/wordvecs/storage"
)

func TestRoundTrip(t *testing.T) {
	words := []string{"hello", "wörld", "a"}
	s := storage.NewArray(3, 2, []float32{1, -2, 3.5, 4, 0, 1e-3})

	var buf bytes.Buffer
	if err := Write(&buf, words, s); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("3 2\n")) {
		t.Errorf("unexpected header: %q", buf.Bytes()[:4])
	}

	v, actual, err := Read(&buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Words(), words) {
		t.Errorf("expected words %v but got %v", words, v.Words())
	}
	for i := range words {
		if !reflect.DeepEqual(actual.Embedding(i), s.Embedding(i)) {
			t.Errorf("row %d: expected %v but got %v", i, s.Embedding(i), actual.Embedding(i))
		}
	}
}

func TestMissingNewlines(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("2 1\n")
	buf.WriteString("a ")
	buf.Write([]byte{0, 0, 0x80, 0x3f})
	buf.WriteString("b ")
	buf.Write([]byte{0, 0, 0, 0x40})

	v, s, err := Read(&buf, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(v.Words(), []string{"a", "b"}) {
		t.Errorf("unexpected words %v", v.Words())
	}
	if s.Embedding(0)[0] != 1 || s.Embedding(1)[0] != 2 {
		t.Errorf("unexpected rows %v %v", s.Embedding(0), s.Embedding(1))
	}
}

func TestLossy(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("1 1\n")
	buf.WriteString("a\xffb ")
	buf.Write([]byte{0, 0, 0x80, 0x3f})
	buf.WriteByte('\n')
	data := buf.Bytes()

	if _, _, err := Read(bytes.NewReader(data), false); err == nil {
		t.Error("expected strict read to fail")
	}
	v, _, err := Read(bytes.NewReader(data), true)
	if err != nil {
		t.Fatal(err)
	}
	if w := v.Word(0); w != "a�b" {
		t.Errorf("unexpected word %q", w)
	}
}

func TestMalformed(t *testing.T) {
	inputs := []string{
		"",
		"3\n",
		"x 2\n",
		"1 2\nword \x00\x00",
		"99999999999999 0\n",
		"99999999999999 300\n",
		"1 99999999999\n",
		"3000000 300\na ",
		"-1 2\n",
	}
	for _, input := range inputs {
		if _, _, err := Read(bytes.NewReader([]byte(input)), false); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
