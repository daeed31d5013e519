package confidence

import (
	"time"
)

// Basis identifies what kind of match a confidence score grades.
type Basis string

const (
	// BasisUserRule is an exact match against a user-authored rule.
	BasisUserRule Basis = "user_rule"
	// BasisSystemRule is a match against a system or pattern rule.
	BasisSystemRule Basis = "system_rule"
	// BasisHeuristic is the extension-based fallback with no rule.
	BasisHeuristic Basis = "heuristic"
	// BasisLearned carries an externally supplied learned signal; its
	// value is used as the base score, never as a booster.
	BasisLearned Basis = "learned"
)

// Policy holds the scoring constants. The relative ordering of the
// defaults is load-bearing; the literal values are product policy and
// may be tuned.
type Policy struct {
	BaseUserRule   float64
	BaseSystemRule float64
	BaseHeuristic  float64

	CorrectionBoost    float64
	CorrectionCap      float64
	CategoryMatchBoost float64
	StaleBoost         float64
	BatchBoost         float64
	BatchThreshold     int

	DestructivePenalty   float64
	ConflictPenalty      float64
	ProtectedPathPenalty float64
	NewRulePenalty       float64
	NewRuleWindow        time.Duration
}

// DefaultPolicy returns the standard scoring constants.
func DefaultPolicy() Policy {
	return Policy{
		BaseUserRule:   1.0,
		BaseSystemRule: 0.8,
		BaseHeuristic:  0.6,

		CorrectionBoost:    0.1,
		CorrectionCap:      0.3,
		CategoryMatchBoost: 0.1,
		StaleBoost:         0.05,
		BatchBoost:         0.05,
		BatchThreshold:     5,

		DestructivePenalty:   0.2,
		ConflictPenalty:      0.2,
		ProtectedPathPenalty: 0.5,
		NewRulePenalty:       0.1,
		NewRuleWindow:        24 * time.Hour,
	}
}

// Context carries everything one score depends on. It is assembled by
// the decision engine; the scorer itself only does arithmetic.
type Context struct {
	Basis       Basis
	LearnedBase float64

	PriorCorrections int
	CategoryMatches  bool
	Stale            bool
	BatchSize        int

	Destructive      bool
	ResolvedConflict bool
	ProtectedPath    bool
	RuleAge          time.Duration
	HasRule          bool
}

// Score computes base + boosters - penalties and clamps the sum into
// [0, 1] as the final step. Intermediate sums may leave the range;
// clamping any earlier changes results and is a defect.
func (p Policy) Score(ctx Context) float64 {
	var base float64
	switch ctx.Basis {
	case BasisUserRule:
		base = p.BaseUserRule
	case BasisSystemRule:
		base = p.BaseSystemRule
	case BasisLearned:
		base = ctx.LearnedBase
	default:
		base = p.BaseHeuristic
	}

	boost := p.CorrectionBoost * float64(ctx.PriorCorrections)
	if boost > p.CorrectionCap {
		boost = p.CorrectionCap
	}
	if ctx.CategoryMatches {
		boost += p.CategoryMatchBoost
	}
	if ctx.Stale {
		boost += p.StaleBoost
	}
	if ctx.BatchSize >= p.BatchThreshold {
		boost += p.BatchBoost
	}

	var penalty float64
	if ctx.Destructive {
		penalty += p.DestructivePenalty
	}
	if ctx.ResolvedConflict {
		penalty += p.ConflictPenalty
	}
	if ctx.ProtectedPath {
		penalty += p.ProtectedPathPenalty
	}
	if ctx.HasRule && ctx.RuleAge < p.NewRuleWindow {
		penalty += p.NewRulePenalty
	}

	return clamp(base + boost - penalty)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
