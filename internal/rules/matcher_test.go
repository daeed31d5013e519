package rules

import (
	"testing"

	"github.com/file-butler/go/internal/types"
	"github.com/stretchr/testify/assert"
)

func pdfRule(id, name string, order int, origin Origin, folder string, conds ...Condition) Rule {
	if len(conds) == 0 {
		conds = []Condition{ExtensionIs{Value: "pdf"}}
	}
	return Rule{
		ID:          id,
		Name:        name,
		Conditions:  conds,
		Operator:    OperatorAll,
		SortOrder:   order,
		Origin:      origin,
		Enabled:     true,
		Destination: types.Destination{Folder: folder},
	}
}

func TestNoMatchReturnsEmptyOutcome(t *testing.T) {
	out := BestMatch(record("song.mp3"), []Rule{
		pdfRule("a", "PDFs", 10, OriginSystem, "Documents"),
	}, DefaultWeights())
	assert.Nil(t, out.Rule)
	assert.False(t, out.Conflict)
}

func TestDisabledRulesAreSkipped(t *testing.T) {
	r := pdfRule("a", "PDFs", 10, OriginSystem, "Documents")
	r.Enabled = false
	out := BestMatch(record("file.pdf"), []Rule{r}, DefaultWeights())
	assert.Nil(t, out.Rule)
}

func TestVetoedRulesAreSkipped(t *testing.T) {
	r := pdfRule("a", "PDFs", 10, OriginSystem, "Documents")
	r.Exclusions = []Condition{NameContains{Value: "draft"}}
	out := BestMatch(record("draft.pdf"), []Rule{r}, DefaultWeights())
	assert.Nil(t, out.Rule)
}

func TestLowerSortOrderWinsWithoutTieBreak(t *testing.T) {
	out := BestMatch(record("file.pdf"), []Rule{
		pdfRule("a", "Late", 20, OriginSystem, "B"),
		pdfRule("b", "Early", 10, OriginSystem, "A"),
	}, DefaultWeights())
	assert.NotNil(t, out.Rule)
	assert.Equal(t, "Early", out.Rule.Name)
	assert.False(t, out.TieBroken)
}

func TestSpecificityBreaksSortOrderTie(t *testing.T) {
	// Exact name (+10) plus extension (+5) beats extension (+5) plus
	// location (+2).
	exact := pdfRule("a", "Exact", 10, OriginSystem, "A",
		NameIs{Value: "invoice.pdf"}, ExtensionIs{Value: "pdf"})
	loose := pdfRule("b", "Loose", 10, OriginSystem, "B",
		ExtensionIs{Value: "pdf"}, PathContains{Value: "downloads"})

	out := BestMatch(record("invoice.pdf"), []Rule{loose, exact}, DefaultWeights())
	assert.NotNil(t, out.Rule)
	assert.Equal(t, "Exact", out.Rule.Name)
	assert.True(t, out.TieBroken)
}

func TestNonMatchingConditionsAddNoSpecificity(t *testing.T) {
	w := DefaultWeights()
	r := pdfRule("a", "Mixed", 10, OriginSystem, "A",
		ExtensionIs{Value: "pdf"},
	)
	r.Operator = OperatorAny
	r.Conditions = append(r.Conditions, NameIs{Value: "other.pdf"})

	assert.Equal(t, 5, w.Specificity(r, record("invoice.pdf")))
}

func TestOriginBreaksSpecificityTie(t *testing.T) {
	user := pdfRule("a", "User", 10, OriginUserSpecific, "A")
	system := pdfRule("b", "System", 10, OriginSystem, "B")

	out := BestMatch(record("file.pdf"), []Rule{system, user}, DefaultWeights())
	assert.NotNil(t, out.Rule)
	assert.Equal(t, "User", out.Rule.Name)
	assert.True(t, out.TieBroken)
}

func TestFullTieWithDifferentDestinationsConflicts(t *testing.T) {
	a := pdfRule("a", "First", 10, OriginUserPattern, "Documents")
	b := pdfRule("b", "Second", 10, OriginUserPattern, "Archive")

	out := BestMatch(record("file.pdf"), []Rule{a, b}, DefaultWeights())
	assert.Nil(t, out.Rule)
	assert.True(t, out.Conflict)
	assert.Len(t, out.Candidates, 2)
}

func TestFullTieWithSameDestinationPicksDeterministically(t *testing.T) {
	a := pdfRule("zzz", "First", 10, OriginUserPattern, "Documents")
	b := pdfRule("aaa", "Second", 10, OriginUserPattern, "Documents")

	out := BestMatch(record("file.pdf"), []Rule{a, b}, DefaultWeights())
	assert.NotNil(t, out.Rule)
	assert.Equal(t, "aaa", out.Rule.ID)
	assert.True(t, out.TieBroken)
}

func TestMatchingIsDeterministicAcrossInputOrder(t *testing.T) {
	ruleset := []Rule{
		pdfRule("a", "A", 10, OriginSystem, "X"),
		pdfRule("b", "B", 10, OriginUserPattern, "Y"),
		pdfRule("c", "C", 5, OriginLearned, "Z"),
	}
	reversed := []Rule{ruleset[2], ruleset[1], ruleset[0]}

	f := record("file.pdf")
	first := BestMatch(f, ruleset, DefaultWeights())
	second := BestMatch(f, reversed, DefaultWeights())

	assert.NotNil(t, first.Rule)
	assert.NotNil(t, second.Rule)
	assert.Equal(t, first.Rule.ID, second.Rule.ID)
}
