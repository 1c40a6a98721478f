package wordvecs

import (
	"math"
	"reflect"
	"testing"
)

func TestFoldOptions(t *testing.T) {
	if actual := FoldOptions(nil); !reflect.DeepEqual(actual, DefaultSearchOptions()) {
		t.Errorf("expected defaults but got %+v", actual)
	}

	opts := []Option{
		Limit(3),
		SimilarityType(EuclideanDistance),
		Skip{"a"},
		BatchSize(10),
		Limit(5),
		Skip{"b", "c"},
	}
	expected := SearchOptions{
		Limit:     5,
		BatchSize: 10,
		Metric:    EuclideanDistance,
		Skip:      map[string]bool{"a": true, "b": true, "c": true},
	}
	if actual := FoldOptions(opts); !reflect.DeepEqual(actual, expected) {
		t.Errorf("expected %+v but got %+v", expected, actual)
	}
}

func TestFoldOptionsPure(t *testing.T) {
	opts := []Option{Skip{"x"}}
	first := FoldOptions(opts)
	first.Skip["y"] = true
	second := FoldOptions(opts)
	if !reflect.DeepEqual(second.Skip, map[string]bool{"x": true}) {
		t.Errorf("fold is not pure: %v", second.Skip)
	}
}

func TestZeroOptions(t *testing.T) {
	m := newTestModel(t)
	zero, err := m.WordSimilarity("queen", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defaults, err := m.WordSimilarity("queen", DefaultSearchOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(zero, defaults) {
		t.Errorf("expected %v but got %v", defaults, zero)
	}
}

func TestMetrics(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	cases := []struct {
		metric   Metric
		expected float64
	}{
		{CosineSimilarity, 0},
		{AngularSimilarity, 0.5},
		{EuclideanSimilarity, 1 / (1 + math.Sqrt2)},
		{EuclideanDistance, math.Sqrt2},
	}
	for _, c := range cases {
		actual := c.metric.Similarity(a, b)
		if math.Abs(float64(actual)-c.expected) > 1e-5 {
			t.Errorf("%s: expected %f but got %f", c.metric, c.expected, actual)
		}
	}

	if s := AngularSimilarity.Similarity(a, a); math.Abs(float64(s)-1) > 1e-5 {
		t.Errorf("unexpected angular self-similarity %f", s)
	}
	if s := CosineSimilarity.Similarity([]float32{0, 0}, a); s != 0 {
		t.Errorf("expected NaN to become 0 but got %f", s)
	}
	if s := EuclideanSimilarity.Similarity([]float32{0, 0}, []float32{0, 0}); s != 1 {
		t.Errorf("unexpected similarity %f", s)
	}
}

func TestParseMetric(t *testing.T) {
	cases := map[string]Metric{
		"cosine":               CosineSimilarity,
		"CosineSimilarity":     CosineSimilarity,
		"angular":              AngularSimilarity,
		"AngularSimilarity":    AngularSimilarity,
		"euclidean_similarity": EuclideanSimilarity,
		"EuclideanDistance":    EuclideanDistance,
	}
	for name, expected := range cases {
		actual, err := ParseMetric(name)
		if err != nil || actual != expected {
			t.Errorf("%s: expected %s but got %s (%v)", name, expected, actual, err)
		}
	}
	if _, err := ParseMetric("manhattan"); err == nil {
		t.Error("expected error")
	}
}
