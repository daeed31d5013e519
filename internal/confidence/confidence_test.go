package confidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserRuleBase(t *testing.T) {
	p := DefaultPolicy()
	score := p.Score(Context{Basis: BasisUserRule, HasRule: true, RuleAge: 48 * time.Hour})
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSystemRuleBase(t *testing.T) {
	p := DefaultPolicy()
	score := p.Score(Context{Basis: BasisSystemRule, HasRule: true, RuleAge: 48 * time.Hour})
	assert.InDelta(t, 0.8, score, 1e-9)
}

func TestHeuristicBase(t *testing.T) {
	p := DefaultPolicy()
	assert.InDelta(t, 0.6, p.Score(Context{Basis: BasisHeuristic}), 1e-9)
}

func TestLearnedBaseIsSupplied(t *testing.T) {
	p := DefaultPolicy()
	score := p.Score(Context{
		Basis:       BasisLearned,
		LearnedBase: 0.5,
		HasRule:     true,
		RuleAge:     48 * time.Hour,
	})
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestCorrectionBoostIsCapped(t *testing.T) {
	p := DefaultPolicy()
	ctx := Context{Basis: BasisHeuristic, PriorCorrections: 2}
	assert.InDelta(t, 0.8, p.Score(ctx), 1e-9)

	// Ten corrections still only add the cap.
	ctx.PriorCorrections = 10
	assert.InDelta(t, 0.9, p.Score(ctx), 1e-9)
}

func TestBatchBoostNeedsThreshold(t *testing.T) {
	p := DefaultPolicy()
	below := p.Score(Context{Basis: BasisHeuristic, BatchSize: 4})
	at := p.Score(Context{Basis: BasisHeuristic, BatchSize: 5})
	assert.InDelta(t, 0.6, below, 1e-9)
	assert.InDelta(t, 0.65, at, 1e-9)
}

func TestPenaltiesStack(t *testing.T) {
	p := DefaultPolicy()
	score := p.Score(Context{
		Basis:            BasisSystemRule,
		HasRule:          true,
		RuleAge:          48 * time.Hour,
		Destructive:      true,
		ResolvedConflict: true,
	})
	assert.InDelta(t, 0.4, score, 1e-9)
}

func TestNewRulePenaltyWindow(t *testing.T) {
	p := DefaultPolicy()
	fresh := p.Score(Context{Basis: BasisSystemRule, HasRule: true, RuleAge: time.Hour})
	aged := p.Score(Context{Basis: BasisSystemRule, HasRule: true, RuleAge: 25 * time.Hour})
	assert.InDelta(t, 0.7, fresh, 1e-9)
	assert.InDelta(t, 0.8, aged, 1e-9)
}

func TestNewRulePenaltyNeedsARule(t *testing.T) {
	p := DefaultPolicy()
	// Heuristic matches have no rule, so rule age never applies.
	score := p.Score(Context{Basis: BasisHeuristic, RuleAge: 0})
	assert.InDelta(t, 0.6, score, 1e-9)
}

func TestClampHappensLast(t *testing.T) {
	p := DefaultPolicy()

	// Base 1.0 plus boosters overflows past 1.0 before penalties; a
	// destructive penalty must still pull the final score under 1.0
	// rather than apply to a pre-clamped 1.0.
	score := p.Score(Context{
		Basis:            BasisUserRule,
		HasRule:          true,
		RuleAge:          48 * time.Hour,
		PriorCorrections: 3,
		CategoryMatches:  true,
		Destructive:      true,
	})
	// 1.0 + 0.3 + 0.1 - 0.2 = 1.2, clamped to 1.0
	assert.InDelta(t, 1.0, score, 1e-9)

	// Without the boosters the same penalty lands fully.
	score = p.Score(Context{
		Basis:       BasisUserRule,
		HasRule:     true,
		RuleAge:     48 * time.Hour,
		Destructive: true,
	})
	assert.InDelta(t, 0.8, score, 1e-9)
}

func TestScoreNeverLeavesUnitRange(t *testing.T) {
	p := DefaultPolicy()
	score := p.Score(Context{
		Basis:            BasisLearned,
		LearnedBase:      0.1,
		Destructive:      true,
		ResolvedConflict: true,
		ProtectedPath:    true,
	})
	assert.Equal(t, 0.0, score)
}
