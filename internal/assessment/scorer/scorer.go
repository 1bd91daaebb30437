// Package scorer reduces an answer set into section subtotals and a total.
package scorer

import (
	"math"

	"academy-api/internal/assessment/questionbank"
)

// Score holds the three section subtotals and their sum. Each subtotal is in
// [0,50] by construction of the point tables; total is in [0,150].
type Score struct {
	Qualification int `json:"qualification"`
	Aptitude      int `json:"aptitude"`
	Readiness     int `json:"readiness"`
	Total         int `json:"total"`
}

// Compute scores an answer set against the question catalogue. Empty slots
// contribute zero (defensive default, not an error). Each section subtotal is
// rounded to nearest independently, then summed; the ±1 drift versus rounding
// the raw sum once matches the original product behavior and is kept.
func Compute(questions []questionbank.Question, answers []string) Score {
	var qualification, aptitude, readiness float64

	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		raw := answers[i]
		if raw == "" {
			continue
		}

		points := q.Rule.Points(raw)
		switch q.Section {
		case questionbank.SectionQualification:
			qualification += points
		case questionbank.SectionAptitude:
			aptitude += points
		case questionbank.SectionReadiness:
			readiness += points
		}
	}

	s := Score{
		Qualification: int(math.Round(qualification)),
		Aptitude:      int(math.Round(aptitude)),
		Readiness:     int(math.Round(readiness)),
	}
	s.Total = s.Qualification + s.Aptitude + s.Readiness
	return s
}
