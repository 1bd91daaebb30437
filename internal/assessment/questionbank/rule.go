package questionbank

// RuleKind discriminates the two scoring rule variants.
type RuleKind int

const (
	// RuleTable scores a single-choice answer via a fixed point table keyed
	// by the selected option index (as a string).
	RuleTable RuleKind = iota
	// RuleFunc scores a free-form answer via a pure function of the raw value.
	RuleFunc
)

// ScoringRule maps a raw answer value to a point contribution. Exactly one of
// Table/Func is populated, matching Kind, so resolution is a single switch.
type ScoringRule struct {
	Kind  RuleKind
	Table map[string]float64
	Func  func(raw string) float64
}

// TableRule builds a fixed-table rule for single-choice questions.
func TableRule(table map[string]float64) ScoringRule {
	return ScoringRule{Kind: RuleTable, Table: table}
}

// FuncRule builds a computed rule for free-form questions.
func FuncRule(fn func(raw string) float64) ScoringRule {
	return ScoringRule{Kind: RuleFunc, Func: fn}
}

// Points resolves the contribution for a raw answer value. Unknown table keys
// and nil callables contribute zero rather than failing.
func (r ScoringRule) Points(raw string) float64 {
	switch r.Kind {
	case RuleTable:
		return r.Table[raw]
	case RuleFunc:
		if r.Func != nil {
			return r.Func(raw)
		}
	}
	return 0
}

// MaxPoints returns the highest contribution the rule can yield. Func rules
// report their known ceiling via the bank definition, so this only inspects
// tables; callers pass the func ceiling separately where needed.
func (r ScoringRule) MaxPoints() float64 {
	if r.Kind != RuleTable {
		return 0
	}
	max := 0.0
	for _, v := range r.Table {
		if v > max {
			max = v
		}
	}
	return max
}
