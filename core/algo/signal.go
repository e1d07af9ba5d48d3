package algo

// Rule identifies which detection rule ended a phase.
type Rule int

// Detection rules evaluated by FindSignal.
const (
	RuleNone  Rule = iota // no signal, the rest of the series is one phase
	RuleLimit             // a point fell outside the control limits
	RuleRun               // RunLength consecutive points sat on one side of the center line
)

// String returns the rule name.
func (r Rule) String() string {
	switch r {
	case RuleLimit:
		return "limit"
	case RuleRun:
		return "run"
	default:
		return "none"
	}
}

// Signal is the outcome of scanning a monitored window.
// Index is the last index of the current phase relative to the window.
type Signal struct {
	Index int
	Rule  Rule
}

// FindSignal scans values left to right against fixed limits. The limit rule
// is checked before the run rule at each index and the first rule to fire wins.
// A point exactly on the center line leaves both run counters unchanged.
func FindSignal(values []float64, centerLine, ucl, lcl float64, runLength int) Signal {
	if len(values) == 0 {
		return Signal{Index: 0, Rule: RuleNone}
	}

	above, below := 0, 0
	for i, v := range values {
		if v > ucl || v < lcl {
			return Signal{Index: max(0, i-1), Rule: RuleLimit}
		}

		switch {
		case v > centerLine:
			above++
			below = 0
		case v < centerLine:
			below++
			above = 0
		}

		if above >= runLength || below >= runLength {
			return Signal{Index: max(0, i-runLength), Rule: RuleRun}
		}
	}
	return Signal{Index: len(values) - 1, Rule: RuleNone}
}

// FindSignalIndex is FindSignal without the rule diagnostics.
func FindSignalIndex(values []float64, centerLine, ucl, lcl float64, runLength int) int {
	return FindSignal(values, centerLine, ucl, lcl, runLength).Index
}
