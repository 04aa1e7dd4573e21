// internal/domain/deadline/kind.go
package deadline

// Kind identifies a tracked recurring deadline.
type Kind string

const (
	KindSalaryIncrement Kind = "salary_increment" // periodic salary step, every 2 years
	KindRankIncrement   Kind = "rank_increment"   // rank promotion review, every 4 years
)

// Kinds lists every deadline kind in digest order.
var Kinds = []Kind{KindSalaryIncrement, KindRankIncrement}

// CycleYears returns the fixed recurrence length of the kind in whole years.
// Unknown kinds have no cycle.
func (k Kind) CycleYears() int {
	switch k {
	case KindSalaryIncrement:
		return 2
	case KindRankIncrement:
		return 4
	default:
		return 0
	}
}

// Label is the human-readable name used in digests.
func (k Kind) Label() string {
	switch k {
	case KindSalaryIncrement:
		return "Salary increment"
	case KindRankIncrement:
		return "Rank increment"
	default:
		return string(k)
	}
}

// Valid reports whether k is a known deadline kind.
func (k Kind) Valid() bool {
	return k.CycleYears() > 0
}
