package rules

import (
	"time"

	"github.com/file-butler/go/internal/types"
)

// LogicalOperator combines a rule's primary conditions.
type LogicalOperator string

const (
	OperatorAll LogicalOperator = "all"
	OperatorAny LogicalOperator = "any"
)

// Origin records who authored a rule. It breaks ties between rules that
// are otherwise equally ranked.
type Origin string

const (
	OriginUserSpecific Origin = "user_specific"
	OriginUserPattern  Origin = "user_pattern"
	OriginSystem       Origin = "system"
	OriginLearned      Origin = "learned"
)

// Priority returns the tie-break rank of the origin, higher wins.
func (o Origin) Priority() int {
	switch o {
	case OriginUserSpecific:
		return 3
	case OriginUserPattern:
		return 2
	case OriginSystem:
		return 1
	case OriginLearned:
		return 0
	}
	return -1
}

// Rule is an immutable user- or system-authored organization rule.
// Edits never mutate a Rule in place; they produce a new value and the
// caller re-runs evaluation.
type Rule struct {
	ID          string
	Name        string
	Conditions  []Condition
	Operator    LogicalOperator
	Exclusions  []Condition
	SortOrder   int
	Origin      Origin
	Enabled     bool
	Destination types.Destination
	CreatedAt   time.Time
}

// Matches reports whether the file satisfies the rule's primary
// conditions under its logical operator. Exclusions are not consulted
// here; see Vetoed.
func (r Rule) Matches(f types.FileRecord) bool {
	if len(r.Conditions) == 0 {
		return false
	}
	switch r.Operator {
	case OperatorAny:
		for _, c := range r.Conditions {
			if c.Matches(f) {
				return true
			}
		}
		return false
	default:
		// All is the default for unset or unknown operators.
		for _, c := range r.Conditions {
			if !c.Matches(f) {
				return false
			}
		}
		return true
	}
}

// Vetoed reports whether any exclusion condition matches the file.
// Exclusions always combine with Any semantics: one hit vetoes the rule.
func (r Rule) Vetoed(f types.FileRecord) bool {
	for _, c := range r.Exclusions {
		if c.Matches(f) {
			return true
		}
	}
	return false
}
