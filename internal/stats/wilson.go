// Package stats holds the pure statistical primitives: Wilson score
// intervals for win-rate proportions and the ordinal tier bins derived from
// them.
package stats

import "math"

// Two-sided normal critical values for the supported confidence levels.
const (
	z90 = 1.6448536269514722
	z95 = 1.959963984540054
	z99 = 2.5758293035489004
)

// DefaultConfidence is the confidence level used when callers do not choose.
const DefaultConfidence = 0.95

// zScore maps a confidence level to its critical value, defaulting to the
// 95% value for unsupported levels.
func zScore(confidence float64) float64 {
	switch confidence {
	case 0.90:
		return z90
	case 0.99:
		return z99
	default:
		return z95
	}
}

// WilsonInterval returns the Wilson score interval for wins out of total at
// the given confidence level. The interval is clamped to [0, 1]. A total of
// zero carries no information and yields the widest interval (0, 1).
func WilsonInterval(wins, total int, confidence float64) (lower, upper float64) {
	if total <= 0 {
		return 0.0, 1.0
	}

	z := zScore(confidence)
	n := float64(total)
	p := float64(wins) / n

	denom := 1 + z*z/n
	centre := (p + z*z/(2*n)) / denom
	margin := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / denom

	return clamp01(centre - margin), clamp01(centre + margin)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
