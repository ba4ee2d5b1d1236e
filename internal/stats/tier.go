package stats

// Tier is an ordinal performance bucket; Tier1 is the strongest. TierNone
// marks archetypes without enough matches to tier at all.
type Tier int

const (
	TierNone Tier = 0
	Tier1    Tier = 1
	Tier2    Tier = 2
	Tier3    Tier = 3
	Tier4    Tier = 4
)

// TierFor buckets a confidence-interval lower bound into a tier. The bins
// are half-open on the right:
//
//	[0.00, 0.45) -> Tier 4
//	[0.45, 0.50) -> Tier 3
//	[0.50, 0.55) -> Tier 2
//	[0.55, 1.00] -> Tier 1
//
// A lower bound of exactly 0.55 is Tier 1.
func TierFor(ciLower float64) Tier {
	switch {
	case ciLower >= 0.55:
		return Tier1
	case ciLower >= 0.50:
		return Tier2
	case ciLower >= 0.45:
		return Tier3
	default:
		return Tier4
	}
}
