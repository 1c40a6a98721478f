package wordvecs

import (
	"fmt"
	"math"
	"strings"
)

// Metric is a way to score a candidate vector against a
// query vector.
type Metric int

const (
	// CosineSimilarity is dot(a, b) / (|a| |b|).
	CosineSimilarity Metric = iota

	// AngularSimilarity is 1 - arccos(cosine) / pi.
	AngularSimilarity

	// EuclideanSimilarity is 1 / (1 + |a - b|).
	EuclideanSimilarity

	// EuclideanDistance is |a - b|.
	// Unlike the other metrics, lower scores are better.
	EuclideanDistance
)

var metricNames = map[Metric]string{
	CosineSimilarity:    "cosine",
	AngularSimilarity:   "angular",
	EuclideanSimilarity: "euclidean_similarity",
	EuclideanDistance:   "euclidean_distance",
}

// String returns the name of the metric.
func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric finds a metric by name.
//
// Both the names returned by String and the full names,
// such as "CosineSimilarity", are accepted.
func ParseMetric(name string) (Metric, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	for m, short := range metricNames {
		long := strings.ReplaceAll(m.longName(), "_", "")
		if key == strings.ReplaceAll(short, "_", "") || key == long {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric: %q", name)
}

func (m Metric) longName() string {
	switch m {
	case CosineSimilarity:
		return "cosinesimilarity"
	case AngularSimilarity:
		return "angularsimilarity"
	}
	return metricNames[m]
}

// Descending reports whether higher scores are better.
func (m Metric) Descending() bool {
	return m != EuclideanDistance
}

// Similarity scores two vectors.
//
// NaN scores, which arise from zero vectors, are reported
// as 0.
func (m Metric) Similarity(a, b []float32) float32 {
	if len(a) != len(b) {
		panic("vector lengths differ")
	}
	var dot, normA, normB float64
	for i, x := range a {
		y := float64(b[i])
		dot += float64(x) * y
		normA += float64(x) * float64(x)
		normB += y * y
	}
	return m.score(dot, normA, normB)
}

// score computes the metric from a dot product and two
// squared norms.
func (m Metric) score(dot, sqNormA, sqNormB float64) float32 {
	var res float64
	switch m {
	case CosineSimilarity:
		res = cosine(dot, sqNormA, sqNormB)
	case AngularSimilarity:
		res = 1 - math.Acos(cosine(dot, sqNormA, sqNormB))/math.Pi
	case EuclideanSimilarity:
		res = 1 / (1 + euclidean(dot, sqNormA, sqNormB))
	case EuclideanDistance:
		res = euclidean(dot, sqNormA, sqNormB)
	default:
		panic(fmt.Sprintf("unknown metric: %d", int(m)))
	}
	if math.IsNaN(res) {
		return 0
	}
	return float32(res)
}

// cosine is clamped to [-1, 1] to absorb rounding error.
func cosine(dot, sqNormA, sqNormB float64) float64 {
	return math.Max(-1, math.Min(1, dot/math.Sqrt(sqNormA*sqNormB)))
}

func euclidean(dot, sqNormA, sqNormB float64) float64 {
	return math.Sqrt(math.Max(0, sqNormA+sqNormB-2*dot))
}
