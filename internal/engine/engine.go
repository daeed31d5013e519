package engine

import (
	"strings"
	"sync"
	"time"

	"github.com/file-butler/go/internal/confidence"
	"github.com/file-butler/go/internal/rules"
	"github.com/file-butler/go/internal/types"
)

// MatchResult is the decision for one file: where it should go, how
// confident the engine is, and why. Results are inputs to user approval;
// they are never persisted directly.
type MatchResult struct {
	FileID     string
	File       types.FileRecord
	Rule       *rules.Rule
	Candidates []rules.Rule

	Destination *types.Destination
	Subpath     string

	Confidence float64
	Conflict   bool
	RiskFlags  []types.RiskFlag
}

// CorrectionSource reports how many accepted corrections exist for
// files similar to the given one. The count is supplied externally; the
// engine only folds it into the confidence score.
type CorrectionSource interface {
	AcceptedCorrections(f types.FileRecord) int
}

// LearnedSignal supplies the externally computed confidence base for
// learned-origin rules.
type LearnedSignal interface {
	Base(f types.FileRecord) (float64, bool)
}

// Engine composes the rule matcher and the confidence scorer into the
// batch decision entry point. It is pure with respect to external
// resources: every evaluation reads immutable rule and file snapshots,
// so batches run in parallel across files.
type Engine struct {
	Policy    confidence.Policy
	Weights   rules.SpecificityWeights
	Fallback  map[types.ContentCategory]types.Destination
	Protected []string

	Corrections CorrectionSource
	Learned     LearnedSignal

	StalenessWindow time.Duration
	Workers         int
	Now             func() time.Time
}

// New creates an engine with default policy, weights and fallback table.
func New() *Engine {
	return &Engine{
		Policy:          confidence.DefaultPolicy(),
		Weights:         rules.DefaultWeights(),
		Fallback:        DefaultFallback(),
		StalenessWindow: 30 * 24 * time.Hour,
		Workers:         4,
		Now:             time.Now,
	}
}

// DefaultFallback maps inferred content categories to the stock
// destination folders used when no rule matches.
func DefaultFallback() map[types.ContentCategory]types.Destination {
	return map[types.ContentCategory]types.Destination{
		types.CategoryDocuments: {Folder: "Documents"},
		types.CategoryImages:    {Folder: "Images"},
		types.CategoryAudio:     {Folder: "Audio"},
		types.CategoryVideo:     {Folder: "Video"},
		types.CategoryArchives:  {Folder: "Archives"},
		types.CategoryCode:      {Folder: "Code"},
	}
}

// Evaluate matches every file against the rule set and scores the
// results. Output order mirrors input order and repeated evaluation of
// unchanged inputs yields identical results; rule ordering within one
// file is never parallelized away.
func (e *Engine) Evaluate(files []types.FileRecord, ruleset []rules.Rule) []MatchResult {
	results := make([]MatchResult, len(files))
	if len(files) == 0 {
		return results
	}

	// Batch sizes by extension feed the similar-files booster.
	batch := make(map[string]int, len(files))
	for _, f := range files {
		batch[strings.ToLower(f.Extension)]++
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = e.evaluateOne(files[i], ruleset, batch[strings.ToLower(files[i].Extension)])
			}
		}()
	}
	for i := range files {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}

func (e *Engine) evaluateOne(f types.FileRecord, ruleset []rules.Rule, batchSize int) MatchResult {
	res := MatchResult{FileID: f.ID, File: f}

	outcome := rules.BestMatch(f, ruleset, e.Weights)

	ctx := confidence.Context{
		BatchSize:     batchSize,
		Stale:         e.isStale(f),
		ProtectedPath: e.isProtected(f.Path),
	}
	if e.Corrections != nil {
		ctx.PriorCorrections = e.Corrections.AcceptedCorrections(f)
	}

	switch {
	case outcome.Conflict:
		res.Conflict = true
		res.Candidates = outcome.Candidates
		res.RiskFlags = append(res.RiskFlags, types.RiskAmbiguous)
		// No destination and no winner: confidence is not computed for a
		// terminal conflict, the caller must resolve it manually.
		return res

	case outcome.Rule != nil:
		r := outcome.Rule
		res.Rule = r
		dest := r.Destination
		res.Destination = &dest
		res.Subpath = dest.ExpandTemplate(f)

		ctx.HasRule = true
		ctx.RuleAge = e.Now().Sub(r.CreatedAt)
		ctx.ResolvedConflict = outcome.TieBroken
		ctx.CategoryMatches = categoryMatches(dest.Folder, f.Category)
		ctx.Destructive = dest.Trash
		ctx.Basis = basisFor(r.Origin)
		if ctx.Basis == confidence.BasisLearned {
			ctx.LearnedBase = 0.5
			if e.Learned != nil {
				if base, ok := e.Learned.Base(f); ok {
					ctx.LearnedBase = base
				}
			}
		}

	default:
		// Fallback heuristic: route by inferred category, or propose
		// nothing at all for files with no usable category.
		ctx.Basis = confidence.BasisHeuristic
		if dest, ok := e.Fallback[f.Category]; ok {
			res.Destination = &dest
			res.Subpath = dest.ExpandTemplate(f)
			ctx.CategoryMatches = categoryMatches(dest.Folder, f.Category)
			ctx.Destructive = dest.Trash
		} else {
			return res
		}
	}

	res.Confidence = e.Policy.Score(ctx)

	if ctx.Destructive {
		res.RiskFlags = append(res.RiskFlags, types.RiskDestructive)
	}
	if ctx.ResolvedConflict {
		res.RiskFlags = append(res.RiskFlags, types.RiskAmbiguous)
	}
	if ctx.ProtectedPath {
		res.RiskFlags = append(res.RiskFlags, types.RiskSystemPath)
	}
	if ctx.HasRule && ctx.RuleAge < e.Policy.NewRuleWindow {
		res.RiskFlags = append(res.RiskFlags, types.RiskNewRule)
	}

	return res
}

func (e *Engine) isStale(f types.FileRecord) bool {
	if e.StalenessWindow <= 0 {
		return false
	}
	return e.Now().Sub(f.ModifiedAt) > e.StalenessWindow
}

func (e *Engine) isProtected(path string) bool {
	for _, p := range e.Protected {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func basisFor(o rules.Origin) confidence.Basis {
	switch o {
	case rules.OriginUserSpecific:
		return confidence.BasisUserRule
	case rules.OriginLearned:
		return confidence.BasisLearned
	default:
		return confidence.BasisSystemRule
	}
}

func categoryMatches(folder string, cat types.ContentCategory) bool {
	if cat == "" || cat == types.CategoryUnknown {
		return false
	}
	return strings.Contains(strings.ToLower(folder), strings.ToLower(string(cat))) ||
		strings.Contains(strings.ToLower(string(cat)), strings.ToLower(folder))
}
