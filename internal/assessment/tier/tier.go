// Package tier classifies a total assessment score into one of four ordinal
// tiers.
package tier

// Tier is the ordinal classification of a completed assessment.
type Tier string

const (
	Premium   Tier = "premium"
	Strong    Tier = "strong"
	Potential Tier = "potential"
	NotReady  Tier = "not-ready"
)

// Classify maps a total score to a tier. Descending thresholds, first match
// wins; anything out of range falls through to the lowest tier.
func Classify(total int) Tier {
	switch {
	case total >= 120:
		return Premium
	case total >= 90:
		return Strong
	case total >= 60:
		return Potential
	default:
		return NotReady
	}
}

// Rank orders tiers for comparison: higher is better.
func Rank(t Tier) int {
	switch t {
	case Premium:
		return 3
	case Strong:
		return 2
	case Potential:
		return 1
	default:
		return 0
	}
}
