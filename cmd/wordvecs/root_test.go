package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/wordvecs"
	"github.com/unixpickle/wordvecs/storage"
	"github.com/unixpickle/wordvecs/vocab"
)

func writeTestModel(t *testing.T, format wordvecs.Format) string {
	t.Helper()
	words := []string{"king", "man", "woman", "queen", "apple"}
	data := []float32{
		1, 0, 1,
		1, 0, 0,
		0, 1, 0,
		0, 1, 1,
		0, 0, -1,
	}
	v, err := vocab.NewSimple(words)
	require.NoError(t, err)
	model, err := wordvecs.NewModel(v, storage.NewArray(len(words), 3, data),
		wordvecs.Metadata{"source": "test"}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model")
	require.NoError(t, model.Save(path, format))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd("1.0.0")
	require.NotNil(t, cmd)
	assert.Equal(t, "wordvecs", cmd.Use)
	assert.Equal(t, "1.0.0", cmd.Version)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.SilenceUsage)
}

func TestRootCmdHasFlags(t *testing.T) {
	cmd := NewRootCmd("1.0.0")
	for _, name := range []string{"format", "config", "json", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag %q", name)
	}
}

func TestRootCmdSubcommands(t *testing.T) {
	cmd := NewRootCmd("1.0.0")
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range []string{"info", "embed", "similar", "analogy", "oov", "convert"} {
		assert.True(t, names[name], "missing command %q", name)
	}
}

func TestInfo(t *testing.T) {
	path := writeTestModel(t, wordvecs.NativeBinary)

	out, err := runCmd(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "dims:      3")
	assert.Contains(t, out, "words:     5")
	assert.Contains(t, out, "source = test")

	out, err = runCmd(t, "info", "--json", path)
	require.NoError(t, err)
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.EqualValues(t, 3, info["dims"])
	assert.EqualValues(t, 5, info["words_len"])
}

func TestInfoFormatFlag(t *testing.T) {
	path := writeTestModel(t, wordvecs.PlainTextWithDims)

	out, err := runCmd(t, "info", "-f", "textdims", path)
	require.NoError(t, err)
	assert.Contains(t, out, "words:     5")

	_, err = runCmd(t, "info", "-f", "nope", path)
	assert.ErrorIs(t, err, wordvecs.ErrUnsupportedFormat)
}

func TestInfoMissingFile(t *testing.T) {
	_, err := runCmd(t, "info", filepath.Join(t.TempDir(), "missing"))
	var loadErr *wordvecs.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestEmbed(t *testing.T) {
	path := writeTestModel(t, wordvecs.NativeBinary)

	out, err := runCmd(t, "embed", path, "king", "pear")
	require.NoError(t, err)
	assert.Contains(t, out, "king 1 0 1\n")
	assert.Contains(t, out, "pear (not found)\n")

	out, err = runCmd(t, "embed", "--mean", path, "man", "woman", "pear")
	require.NoError(t, err)
	assert.Contains(t, out, "0.5 0.5 0\n")

	out, err = runCmd(t, "embed", "--text", "--json", path, "man woman")
	require.NoError(t, err)
	var res struct {
		Embedding []float32 `json:"embedding"`
		Coverage  float32   `json:"coverage"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []float32{0.5, 0.5, 0}, res.Embedding)
	assert.Equal(t, float32(1), res.Coverage)

	_, err = runCmd(t, "embed", "--mean", path, "pear")
	assert.ErrorIs(t, err, wordvecs.ErrEmptyCoverage)
}

func TestSimilar(t *testing.T) {
	path := writeTestModel(t, wordvecs.NativeBinary)

	out, err := runCmd(t, "similar", "--json", "-n", "2", path, "king")
	require.NoError(t, err)
	var results []struct {
		Word  string  `json:"word"`
		Score float32 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "king", results[0].Word)
	assert.Equal(t, "man", results[1].Word)
	assert.InDelta(t, 1, results[0].Score, 1e-5)
	assert.InDelta(t, 0.7071, results[1].Score, 1e-3)

	out, err = runCmd(t, "similar", "--json", "--skip", "king", path, "king")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, "man", results[0].Word)

	_, err = runCmd(t, "similar", path, "pear")
	assert.ErrorIs(t, err, wordvecs.ErrNotFound)
}

func TestSimilarVector(t *testing.T) {
	path := writeTestModel(t, wordvecs.NativeBinary)

	out, err := runCmd(t, "similar", "--vector", "-n", "1", path, "0", "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "queen")

	_, err = runCmd(t, "similar", "--vector", path, "0", "1")
	assert.ErrorIs(t, err, wordvecs.ErrDimensionMismatch)

	_, err = runCmd(t, "similar", "--vector", path, "x")
	assert.Error(t, err)
}

func TestSimilarMetric(t *testing.T) {
	path := writeTestModel(t, wordvecs.NativeBinary)

	out, err := runCmd(t, "similar", "--json", "-m", "euclidean_distance", "-n", "1", path, "king")
	require.NoError(t, err)
	var results []struct {
		Word  string  `json:"word"`
		Score float32 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "king", results[0].Word)
	assert.Equal(t, float32(0), results[0].Score)

	_, err = runCmd(t, "similar", "-m", "manhattan", path, "king")
	assert.Error(t, err)
}

func TestAnalogy(t *testing.T) {
	path := writeTestModel(t, wordvecs.NativeBinary)

	out, err := runCmd(t, "analogy", "--json", "-n", "1", path, "man", "king", "woman")
	require.NoError(t, err)
	var results []struct {
		Word  string  `json:"word"`
		Score float32 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "queen", results[0].Word)
	assert.InDelta(t, 1, results[0].Score, 1e-5)

	_, err = runCmd(t, "analogy", path, "man", "pear", "woman")
	var analogyErr *wordvecs.AnalogyError
	require.ErrorAs(t, err, &analogyErr)
	assert.Equal(t, 1, analogyErr.Operand)
}

func TestOOV(t *testing.T) {
	path := writeTestModel(t, wordvecs.NativeBinary)
	corpus := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(corpus, []byte("the king and the queen\nThe man.\n"), 0644))

	out, err := runCmd(t, "oov", "--json", "--lowercase", "--drop-punctuation", path, corpus)
	require.NoError(t, err)
	var res struct {
		Coverage  float64 `json:"coverage"`
		OOVUnique int     `json:"oov_unique"`
		OOV       []struct {
			Token string `json:"token"`
			Count int    `json:"count"`
		} `json:"oov"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.OOVUnique)
	require.Len(t, res.OOV, 2)
	assert.Equal(t, "the", res.OOV[0].Token)
	assert.Equal(t, 3, res.OOV[0].Count)
	assert.Equal(t, "and", res.OOV[1].Token)
}

func TestConvert(t *testing.T) {
	in := writeTestModel(t, wordvecs.NativeBinary)
	out := filepath.Join(t.TempDir(), "vectors.bin")

	stdout, err := runCmd(t, "convert", "--to", "word2vec", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 5 words")

	model, err := wordvecs.Load(out, wordvecs.Word2VecBinary)
	require.NoError(t, err)
	defer model.Close()
	vec, ok := model.Embedding("queen")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1, 1}, vec)

	_, err = runCmd(t, "convert", "--to", "fasttext", in, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot write")
}

func TestConvertFloret(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "vectors.floret")
	require.NoError(t, os.WriteFile(in, []byte("4 2 3 4 2 0 < >\n0 1 0\n1 0 1\n2 1 1\n3 0 0\n"), 0644))
	native := filepath.Join(dir, "vectors.fifu")
	out := filepath.Join(dir, "copy.floret")

	_, err := runCmd(t, "convert", "-f", "floret", in, native)
	require.NoError(t, err)
	_, err = runCmd(t, "convert", "-f", "fifu", "--to", "floret", native, out)
	require.NoError(t, err)

	original, err := os.ReadFile(in)
	require.NoError(t, err)
	converted, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, string(original), string(converted))

	_, err = runCmd(t, "convert", "-f", "floret", "--to", "text", in, filepath.Join(dir, "vectors.txt"))
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "vectors.txt"))
}
