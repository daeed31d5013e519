package rules

import (
	"sort"

	"github.com/file-butler/go/internal/types"
)

// SpecificityWeights scores how narrowly a rule targets a file when two
// rules share the same sort order. The defaults preserve the relative
// ordering exact-name > extension > location; the literal values are
// policy, not invariants.
type SpecificityWeights struct {
	ExactName int
	Extension int
	Location  int
}

// DefaultWeights returns the standard specificity weights.
func DefaultWeights() SpecificityWeights {
	return SpecificityWeights{ExactName: 10, Extension: 5, Location: 2}
}

// Specificity sums the weight of every primary condition that matches
// the file. Conditions that do not match contribute nothing.
func (w SpecificityWeights) Specificity(r Rule, f types.FileRecord) int {
	score := 0
	for _, c := range r.Conditions {
		if !c.Matches(f) {
			continue
		}
		switch c.(type) {
		case NameIs:
			score += w.ExactName
		case ExtensionIs:
			score += w.Extension
		case PathContains:
			score += w.Location
		}
	}
	return score
}

// Outcome is the result of matching one file against the rule set.
// Exactly one of three shapes holds: a winning rule, a conflict with the
// tied candidates, or nothing at all. TieBroken records that the winner
// only emerged after specificity or origin tie-breaking; the confidence
// scorer penalizes such matches.
type Outcome struct {
	Rule       *Rule
	Conflict   bool
	Candidates []Rule
	TieBroken  bool
}

// BestMatch finds the winning rule for a file. Disabled, non-matching
// and vetoed rules are filtered first; survivors are resolved by lowest
// sort order, then highest specificity, then highest origin priority.
// Rules still tied after all three stages conflict if their destinations
// differ; the matcher never guesses between them.
func BestMatch(f types.FileRecord, ruleset []Rule, w SpecificityWeights) Outcome {
	var candidates []Rule
	for _, r := range ruleset {
		if !r.Enabled {
			continue
		}
		if !r.Matches(f) {
			continue
		}
		if r.Vetoed(f) {
			continue
		}
		candidates = append(candidates, r)
	}

	if len(candidates) == 0 {
		return Outcome{}
	}
	if len(candidates) == 1 {
		return Outcome{Rule: &candidates[0]}
	}

	// Stage 1: lowest sort order wins outright.
	minOrder := candidates[0].SortOrder
	for _, r := range candidates[1:] {
		if r.SortOrder < minOrder {
			minOrder = r.SortOrder
		}
	}
	candidates = keep(candidates, func(r Rule) bool { return r.SortOrder == minOrder })
	if len(candidates) == 1 {
		return Outcome{Rule: &candidates[0]}
	}

	// Stage 2: highest specificity.
	best := w.Specificity(candidates[0], f)
	for _, r := range candidates[1:] {
		if s := w.Specificity(r, f); s > best {
			best = s
		}
	}
	candidates = keep(candidates, func(r Rule) bool { return w.Specificity(r, f) == best })
	if len(candidates) == 1 {
		return Outcome{Rule: &candidates[0], TieBroken: true}
	}

	// Stage 3: highest origin priority.
	top := candidates[0].Origin.Priority()
	for _, r := range candidates[1:] {
		if p := r.Origin.Priority(); p > top {
			top = p
		}
	}
	candidates = keep(candidates, func(r Rule) bool { return r.Origin.Priority() == top })
	if len(candidates) == 1 {
		return Outcome{Rule: &candidates[0], TieBroken: true}
	}

	// True tie. Identical destinations are not a conflict: any of the
	// tied rules produces the same action, so pick deterministically.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	sameDest := true
	for _, r := range candidates[1:] {
		if r.Destination != candidates[0].Destination {
			sameDest = false
			break
		}
	}
	if sameDest {
		return Outcome{Rule: &candidates[0], TieBroken: true}
	}

	return Outcome{Conflict: true, Candidates: candidates}
}

func keep(rs []Rule, pred func(Rule) bool) []Rule {
	var out []Rule
	for _, r := range rs {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
