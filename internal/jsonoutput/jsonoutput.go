package jsonoutput

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/file-butler/go/internal/engine"
	"github.com/file-butler/go/internal/types"
)

// ProposedMove is one planned move in the JSON plan.
type ProposedMove struct {
	File        string           `json:"file"`
	Destination string           `json:"destination"`
	Rule        string           `json:"rule,omitempty"`
	Confidence  float64          `json:"confidence"`
	Tier        string           `json:"tier"`
	RiskFlags   []types.RiskFlag `json:"risk_flags,omitempty"`
}

// Conflict is one unresolved tie in the JSON plan.
type Conflict struct {
	File       string   `json:"file"`
	Candidates []string `json:"candidates"`
}

// Plan is the complete JSON output of one evaluation pass.
type Plan struct {
	Moves     []ProposedMove `json:"moves"`
	Conflicts []Conflict     `json:"conflicts"`
	Unmatched []string       `json:"unmatched"`
}

// Confidence tier boundaries mirrored from the UI layer; the plan
// carries the tier so scripted consumers need no threshold logic.
func tierFor(score float64) string {
	switch {
	case score >= 0.9:
		return "high"
	case score >= 0.6:
		return "review"
	default:
		return "unsure"
	}
}

// FromResults creates a Plan from an evaluation pass. Paths are made
// relative to the scan root with forward slashes for deterministic
// output.
func FromResults(results []engine.MatchResult, scanRoot string) *Plan {
	plan := &Plan{
		Moves:     []ProposedMove{},
		Conflicts: []Conflict{},
		Unmatched: []string{},
	}

	for _, r := range results {
		switch {
		case r.Conflict:
			c := Conflict{File: makeRelativePath(r.File.Path, scanRoot)}
			for _, cand := range r.Candidates {
				c.Candidates = append(c.Candidates, fmt.Sprintf("%s -> %s", cand.Name, cand.Destination.Folder))
			}
			plan.Conflicts = append(plan.Conflicts, c)

		case r.Destination != nil:
			dest := filepath.Join(r.Destination.Folder, r.Subpath)
			if r.Destination.Trash {
				dest = "trash"
			}
			mv := ProposedMove{
				File:        makeRelativePath(r.File.Path, scanRoot),
				Destination: strings.ReplaceAll(dest, "\\", "/"),
				Confidence:  r.Confidence,
				Tier:        tierFor(r.Confidence),
				RiskFlags:   r.RiskFlags,
			}
			if r.Rule != nil {
				mv.Rule = r.Rule.Name
			}
			plan.Moves = append(plan.Moves, mv)

		default:
			plan.Unmatched = append(plan.Unmatched, makeRelativePath(r.File.Path, scanRoot))
		}
	}

	// Sort everything by file path for deterministic output
	sort.Slice(plan.Moves, func(i, j int) bool {
		return plan.Moves[i].File < plan.Moves[j].File
	})
	sort.Slice(plan.Conflicts, func(i, j int) bool {
		return plan.Conflicts[i].File < plan.Conflicts[j].File
	})
	sort.Strings(plan.Unmatched)

	return plan
}

// ToJSON converts the Plan to a JSON string
func ToJSON(plan *Plan) (string, error) {
	jsonBytes, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("JSON serialization failed: %w", err)
	}
	return string(jsonBytes), nil
}

// makeRelativePath converts an absolute path to a relative path using forward slashes
func makeRelativePath(path, scanRoot string) string {
	relPath, err := filepath.Rel(scanRoot, path)
	if err != nil {
		relPath = path
	}

	relPath = strings.ReplaceAll(relPath, "\\", "/")

	if relPath == "." {
		relPath = ""
	}

	return relPath
}
