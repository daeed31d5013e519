package rules

import (
	"strings"
	"time"

	"github.com/file-butler/go/internal/types"
)

// Condition is one predicate a rule tests against a file record. The set
// of implementations is closed: every variant lives in this package and
// carries its own match logic. Conditions are immutable values and never
// error; malformed input degrades to a non-match.
type Condition interface {
	// Matches reports whether the file satisfies the condition.
	Matches(f types.FileRecord) bool
	// Kind returns the stable tag used for serialization.
	Kind() string

	sealed()
}

// ExtensionIs matches files with the given extension (dot optional).
type ExtensionIs struct {
	Value string
}

// NameIs matches files whose full name equals the given value.
type NameIs struct {
	Value         string
	CaseSensitive bool
}

// NameContains matches files whose name contains the given substring.
type NameContains struct {
	Value         string
	CaseSensitive bool
}

// NameStartsWith matches files whose name starts with the given prefix.
type NameStartsWith struct {
	Value         string
	CaseSensitive bool
}

// NameEndsWith matches files whose name ends with the given suffix.
type NameEndsWith struct {
	Value         string
	CaseSensitive bool
}

// SizeGreaterThan matches files strictly larger than the given size.
type SizeGreaterThan struct {
	Bytes int64
}

// SizeLessThan matches files strictly smaller than the given size.
type SizeLessThan struct {
	Bytes int64
}

// ModifiedWithin matches files modified less than the given number of
// days ago.
type ModifiedWithin struct {
	Days int
}

// ContentCategoryIs matches files whose inferred category equals the
// given category.
type ContentCategoryIs struct {
	Category types.ContentCategory
}

// PathContains matches files whose current path contains the given
// substring.
type PathContains struct {
	Value         string
	CaseSensitive bool
}

// Not negates any other condition. Because a malformed wrapped condition
// degrades to non-match, Not of a malformed condition matches.
type Not struct {
	Inner Condition
}

// now is swapped out in tests to keep ModifiedWithin deterministic.
var now = time.Now

func (c ExtensionIs) Matches(f types.FileRecord) bool {
	want := normalizeExt(c.Value)
	if want == "" {
		return false
	}
	return strings.EqualFold(normalizeExt(f.Extension), want)
}

func (c NameIs) Matches(f types.FileRecord) bool {
	if c.Value == "" {
		return false
	}
	if c.CaseSensitive {
		return f.Name == c.Value
	}
	return strings.EqualFold(f.Name, c.Value)
}

func (c NameContains) Matches(f types.FileRecord) bool {
	if c.Value == "" {
		return false
	}
	if c.CaseSensitive {
		return strings.Contains(f.Name, c.Value)
	}
	return strings.Contains(strings.ToLower(f.Name), strings.ToLower(c.Value))
}

func (c NameStartsWith) Matches(f types.FileRecord) bool {
	if c.Value == "" {
		return false
	}
	if c.CaseSensitive {
		return strings.HasPrefix(f.Name, c.Value)
	}
	return strings.HasPrefix(strings.ToLower(f.Name), strings.ToLower(c.Value))
}

func (c NameEndsWith) Matches(f types.FileRecord) bool {
	if c.Value == "" {
		return false
	}
	if c.CaseSensitive {
		return strings.HasSuffix(f.Name, c.Value)
	}
	return strings.HasSuffix(strings.ToLower(f.Name), strings.ToLower(c.Value))
}

func (c SizeGreaterThan) Matches(f types.FileRecord) bool {
	if c.Bytes < 0 {
		return false
	}
	return f.Size > c.Bytes
}

func (c SizeLessThan) Matches(f types.FileRecord) bool {
	if c.Bytes < 0 {
		return false
	}
	return f.Size < c.Bytes
}

func (c ModifiedWithin) Matches(f types.FileRecord) bool {
	if c.Days <= 0 {
		return false
	}
	cutoff := now().AddDate(0, 0, -c.Days)
	return f.ModifiedAt.After(cutoff)
}

func (c ContentCategoryIs) Matches(f types.FileRecord) bool {
	if c.Category == "" {
		return false
	}
	return f.Category == c.Category
}

func (c PathContains) Matches(f types.FileRecord) bool {
	if c.Value == "" {
		return false
	}
	if c.CaseSensitive {
		return strings.Contains(f.Path, c.Value)
	}
	return strings.Contains(strings.ToLower(f.Path), strings.ToLower(c.Value))
}

func (c Not) Matches(f types.FileRecord) bool {
	if c.Inner == nil {
		// Not of nothing: the missing condition is a non-match.
		return true
	}
	return !c.Inner.Matches(f)
}

func (ExtensionIs) Kind() string       { return "extension_is" }
func (NameIs) Kind() string            { return "name_is" }
func (NameContains) Kind() string      { return "name_contains" }
func (NameStartsWith) Kind() string    { return "name_starts_with" }
func (NameEndsWith) Kind() string      { return "name_ends_with" }
func (SizeGreaterThan) Kind() string   { return "size_greater_than" }
func (SizeLessThan) Kind() string      { return "size_less_than" }
func (ModifiedWithin) Kind() string    { return "modified_within" }
func (ContentCategoryIs) Kind() string { return "content_category_is" }
func (PathContains) Kind() string      { return "path_contains" }
func (Not) Kind() string               { return "not" }

func (ExtensionIs) sealed()       {}
func (NameIs) sealed()            {}
func (NameContains) sealed()      {}
func (NameStartsWith) sealed()    {}
func (NameEndsWith) sealed()      {}
func (SizeGreaterThan) sealed()   {}
func (SizeLessThan) sealed()      {}
func (ModifiedWithin) sealed()    {}
func (ContentCategoryIs) sealed() {}
func (PathContains) sealed()      {}
func (Not) sealed()               {}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	ext = strings.TrimPrefix(ext, ".")
	return ext
}
