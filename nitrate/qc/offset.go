package qc

import (
	"math"
	"time"
)

// Point is a timestamped value, either a concentration on the processed
// curve or an independent reference measurement such as a bottle sample.
type Point struct {
	Time  time.Time
	Value float64
}

// Match pairs a reference with the closest curve point used for it.
type Match struct {
	Reference Point
	Curve     Point
	Offset    float64 // curve − reference
}

// MeanOffset returns the mean of curve − reference over all references,
// matching each reference to the nearest non-NaN curve point. When maxGap
// is positive, references with no curve point within maxGap are skipped.
// The result is NaN when nothing matched. Ties go to the earlier point.
func MeanOffset(curve, refs []Point, maxGap time.Duration) (float64, []Match) {
	valid := make([]Point, 0, len(curve))
	for _, p := range curve {
		if !math.IsNaN(p.Value) {
			valid = append(valid, p)
		}
	}

	var matches []Match
	var sum float64
	for _, ref := range refs {
		best := -1
		var bestGap time.Duration
		for i, p := range valid {
			gap := absDuration(p.Time.Sub(ref.Time))
			if maxGap > 0 && gap > maxGap {
				continue
			}
			if best < 0 || gap < bestGap || (gap == bestGap && p.Time.Before(valid[best].Time)) {
				best, bestGap = i, gap
			}
		}
		if best < 0 {
			continue
		}
		m := Match{Reference: ref, Curve: valid[best], Offset: valid[best].Value - ref.Value}
		matches = append(matches, m)
		sum += m.Offset
	}
	if len(matches) == 0 {
		return math.NaN(), nil
	}
	return sum / float64(len(matches)), matches
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
