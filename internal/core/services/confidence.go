package services

import (
	"math"
	"sort"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

// Confidence estimates how well the retrieved chunks support an answer,
// on a 0..1 scale rounded to two decimals. It is a pure function of the
// score distribution: the best similarity found, how far it stands
// above the runner-up, the distance between the best and worst hit, and
// how full the requested window came back. No retrieved chunks means no
// support at all.
//
// The normalization bounds and weights are calibration values carried
// over as-is; do not re-derive them.
func Confidence(chunks []domain.RetrievedChunk, topK int) float64 {
	if len(chunks) == 0 {
		return 0.0
	}

	scores := make([]float64, len(chunks))
	for i, chunk := range chunks {
		scores[i] = chunk.Score
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	maxScore := scores[0]
	secondScore := maxScore
	if len(scores) > 1 {
		secondScore = scores[1]
	}
	minScore := scores[len(scores)-1]

	spread := maxScore - secondScore
	consistency := maxScore - minScore

	coverage := 1.0
	if topK > 0 {
		coverage = float64(len(scores)) / float64(topK)
	}

	confidence := 0.5*normalize(maxScore, 0.3, 1.0) +
		0.2*normalize(spread, 0.0, 0.4) +
		0.2*normalize(consistency, 0.0, 0.5) +
		0.1*normalize(coverage, 0.3, 1.0)

	if confidence < 0.0 {
		confidence = 0.0
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return math.Round(confidence*100) / 100
}

// normalize maps value linearly from [lo, hi] onto [0, 1], clamping at
// both ends.
func normalize(value, lo, hi float64) float64 {
	if value <= lo {
		return 0.0
	}
	if value >= hi {
		return 1.0
	}
	return (value - lo) / (hi - lo)
}
