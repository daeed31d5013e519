package rules

import (
	"fmt"
	"os"
	"time"

	"github.com/file-butler/go/internal/types"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// UnknownKindError reports a serialized condition whose kind this build
// does not know. Known kinds in the same payload still decode; the
// schema only ever evolves by adding kinds.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown condition kind %q", e.Kind)
}

// ConditionPayload is the serialized form of a Condition. One flat
// struct with a kind tag keeps old payloads decodable as new variants
// are added.
type ConditionPayload struct {
	Kind          string                `json:"kind" yaml:"kind"`
	Value         string                `json:"value,omitempty" yaml:"value,omitempty"`
	CaseSensitive bool                  `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	Bytes         int64                 `json:"bytes,omitempty" yaml:"bytes,omitempty"`
	Days          int                   `json:"days,omitempty" yaml:"days,omitempty"`
	Category      types.ContentCategory `json:"category,omitempty" yaml:"category,omitempty"`
	Not           *ConditionPayload     `json:"not,omitempty" yaml:"not,omitempty"`
}

// EncodeCondition converts a condition into its serialized form.
func EncodeCondition(c Condition) ConditionPayload {
	switch v := c.(type) {
	case ExtensionIs:
		return ConditionPayload{Kind: v.Kind(), Value: v.Value}
	case NameIs:
		return ConditionPayload{Kind: v.Kind(), Value: v.Value, CaseSensitive: v.CaseSensitive}
	case NameContains:
		return ConditionPayload{Kind: v.Kind(), Value: v.Value, CaseSensitive: v.CaseSensitive}
	case NameStartsWith:
		return ConditionPayload{Kind: v.Kind(), Value: v.Value, CaseSensitive: v.CaseSensitive}
	case NameEndsWith:
		return ConditionPayload{Kind: v.Kind(), Value: v.Value, CaseSensitive: v.CaseSensitive}
	case SizeGreaterThan:
		return ConditionPayload{Kind: v.Kind(), Bytes: v.Bytes}
	case SizeLessThan:
		return ConditionPayload{Kind: v.Kind(), Bytes: v.Bytes}
	case ModifiedWithin:
		return ConditionPayload{Kind: v.Kind(), Days: v.Days}
	case ContentCategoryIs:
		return ConditionPayload{Kind: v.Kind(), Category: v.Category}
	case PathContains:
		return ConditionPayload{Kind: v.Kind(), Value: v.Value, CaseSensitive: v.CaseSensitive}
	case Not:
		inner := EncodeCondition(v.Inner)
		return ConditionPayload{Kind: v.Kind(), Not: &inner}
	}
	return ConditionPayload{}
}

// DecodeCondition converts a serialized condition back into a value.
func DecodeCondition(p ConditionPayload) (Condition, error) {
	switch p.Kind {
	case "extension_is":
		return ExtensionIs{Value: p.Value}, nil
	case "name_is":
		return NameIs{Value: p.Value, CaseSensitive: p.CaseSensitive}, nil
	case "name_contains":
		return NameContains{Value: p.Value, CaseSensitive: p.CaseSensitive}, nil
	case "name_starts_with":
		return NameStartsWith{Value: p.Value, CaseSensitive: p.CaseSensitive}, nil
	case "name_ends_with":
		return NameEndsWith{Value: p.Value, CaseSensitive: p.CaseSensitive}, nil
	case "size_greater_than":
		return SizeGreaterThan{Bytes: p.Bytes}, nil
	case "size_less_than":
		return SizeLessThan{Bytes: p.Bytes}, nil
	case "modified_within":
		return ModifiedWithin{Days: p.Days}, nil
	case "content_category_is":
		return ContentCategoryIs{Category: p.Category}, nil
	case "path_contains":
		return PathContains{Value: p.Value, CaseSensitive: p.CaseSensitive}, nil
	case "not":
		if p.Not == nil {
			return Not{}, nil
		}
		inner, err := DecodeCondition(*p.Not)
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	}
	return nil, &UnknownKindError{Kind: p.Kind}
}

// RulePayload is the serialized form of a Rule, shared by the YAML rule
// files and the sqlite store.
type RulePayload struct {
	ID          string             `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string             `json:"name" yaml:"name"`
	Conditions  []ConditionPayload `json:"conditions" yaml:"conditions"`
	Operator    LogicalOperator    `json:"operator,omitempty" yaml:"operator,omitempty"`
	Exclusions  []ConditionPayload `json:"exclusions,omitempty" yaml:"exclusions,omitempty"`
	SortOrder   int                `json:"sort_order" yaml:"sort_order"`
	Origin      Origin             `json:"origin,omitempty" yaml:"origin,omitempty"`
	Enabled     *bool              `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Destination types.Destination  `json:"destination" yaml:"destination"`
	CreatedAt   time.Time          `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// EncodeRule converts a rule into its serialized form.
func EncodeRule(r Rule) RulePayload {
	p := RulePayload{
		ID:          r.ID,
		Name:        r.Name,
		Operator:    r.Operator,
		SortOrder:   r.SortOrder,
		Origin:      r.Origin,
		Destination: r.Destination,
		CreatedAt:   r.CreatedAt,
	}
	enabled := r.Enabled
	p.Enabled = &enabled
	for _, c := range r.Conditions {
		p.Conditions = append(p.Conditions, EncodeCondition(c))
	}
	for _, c := range r.Exclusions {
		p.Exclusions = append(p.Exclusions, EncodeCondition(c))
	}
	return p
}

// DecodeRule converts a serialized rule back into a value. Missing
// optional fields pick up defaults: operator all, origin user_specific,
// enabled true, a fresh identity.
func DecodeRule(p RulePayload) (Rule, error) {
	r := Rule{
		ID:          p.ID,
		Name:        p.Name,
		Operator:    p.Operator,
		SortOrder:   p.SortOrder,
		Origin:      p.Origin,
		Enabled:     true,
		Destination: p.Destination,
		CreatedAt:   p.CreatedAt,
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Operator == "" {
		r.Operator = OperatorAll
	}
	if r.Origin == "" {
		r.Origin = OriginUserSpecific
	}
	if p.Enabled != nil {
		r.Enabled = *p.Enabled
	}
	for _, cp := range p.Conditions {
		c, err := DecodeCondition(cp)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q: %w", p.Name, err)
		}
		r.Conditions = append(r.Conditions, c)
	}
	for _, cp := range p.Exclusions {
		c, err := DecodeCondition(cp)
		if err != nil {
			return Rule{}, fmt.Errorf("rule %q exclusion: %w", p.Name, err)
		}
		r.Exclusions = append(r.Exclusions, c)
	}
	return r, nil
}

// ruleFile is the YAML document for rule import and export.
type ruleFile struct {
	Rules []RulePayload `yaml:"rules"`
}

// LoadFile reads rules from a YAML rule file.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}
	var out []Rule
	for _, p := range doc.Rules {
		r, err := DecodeRule(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// SaveFile writes rules to a YAML rule file.
func SaveFile(path string, ruleset []Rule) error {
	doc := ruleFile{}
	for _, r := range ruleset {
		doc.Rules = append(doc.Rules, EncodeRule(r))
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode rule file: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
