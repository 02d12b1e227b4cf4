package metrics

import "math"

// MaintainabilityIndex computes the 0..100 maintainability index from Halstead
// volume, total cyclomatic complexity, logical lines and comment percentage.
// Modules without volume or logical lines score 100.
func MaintainabilityIndex(volume float64, complexity, lloc int, commentPercent float64) float64 {
	if volume <= 0 || lloc <= 0 {
		return 100
	}
	commentScale := math.Sqrt(2.46 * commentPercent * math.Pi / 180)
	mi := 171 -
		5.2*math.Log(volume) -
		0.23*float64(complexity) -
		16.2*math.Log(float64(lloc)) +
		50*math.Sin(commentScale)
	return math.Min(math.Max(0, mi*100/171), 100)
}

// CommentPercent counts multi-line docstrings as comments.
func CommentPercent(raw RawMetrics) float64 {
	if raw.SLOC == 0 {
		return 0
	}
	return float64(raw.Comments+raw.Multi) / float64(raw.SLOC) * 100
}
