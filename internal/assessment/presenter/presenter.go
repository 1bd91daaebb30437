// Package presenter maps a tier to the user-facing result bundle.
package presenter

import "academy-api/internal/assessment/tier"

// Bundle is the display metadata for one tier. Percentile drives the visual
// ranking bar only.
type Bundle struct {
	Tier        tier.Tier `json:"tier"`
	Label       string    `json:"label"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	NextSteps   []string  `json:"nextSteps"`
	CTALabel    string    `json:"ctaLabel"`
	CTATarget   string    `json:"ctaTarget"`
	Percentile  int       `json:"percentile"`
}

var bundles = map[tier.Tier]Bundle{
	tier.Premium: {
		Tier:        tier.Premium,
		Label:       "Premium Candidate",
		Color:       "gold",
		Description: "Your profile places you among the strongest candidates we assess. You are ready to move straight into the admissions process.",
		NextSteps: []string{
			"Book your free demo flight",
			"Meet the chief flight instructor",
			"Reserve a seat in the next intake",
		},
		CTALabel:   "Book Your Demo Flight",
		CTATarget:  "booking",
		Percentile: 15,
	},
	tier.Strong: {
		Tier:        tier.Strong,
		Label:       "Strong Candidate",
		Color:       "green",
		Description: "You show strong potential for a career in the cockpit. A demo flight is the natural next step.",
		NextSteps: []string{
			"Book a demo flight",
			"Review the training program syllabus",
			"Talk through financing options",
		},
		CTALabel:   "Book a Demo Flight",
		CTATarget:  "booking",
		Percentile: 30,
	},
	tier.Potential: {
		Tier:        tier.Potential,
		Label:       "Promising Potential",
		Color:       "blue",
		Description: "You have a promising foundation. An advisor can help you close the remaining gaps before training starts.",
		NextSteps: []string{
			"Schedule a call with an advisor",
			"Explore the preparatory course",
			"Learn what the medical exam involves",
		},
		CTALabel:   "Talk to an Advisor",
		CTATarget:  "advisor",
		Percentile: 50,
	},
	tier.NotReady: {
		Tier:        tier.NotReady,
		Label:       "Not Ready Yet",
		Color:       "gray",
		Description: "Flying may still be in your future, but the timing isn't right yet. Our starter program keeps the door open.",
		NextSteps: []string{
			"Join the starter program",
			"Subscribe to the academy newsletter",
			"Retake the assessment when circumstances change",
		},
		CTALabel:   "Explore Our Starter Program",
		CTATarget:  "starter-program",
		Percentile: 70,
	},
}

// Present returns the display bundle for a tier. Unknown tiers fall back to
// the potential entry.
func Present(t tier.Tier) Bundle {
	if b, ok := bundles[t]; ok {
		return b
	}
	return bundles[tier.Potential]
}
