package types

import (
	"strings"
	"time"
)

// FileRecord represents one file discovered by the inventory provider.
// Identity is derived from the file's path so it survives rescans. The
// decision core only ever reads FileRecords, it never mutates them.
type FileRecord struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Extension  string          `json:"extension"`
	Size       int64           `json:"size"`
	CreatedAt  time.Time       `json:"created_at"`
	ModifiedAt time.Time       `json:"modified_at"`
	Path       string          `json:"path"`
	Category   ContentCategory `json:"category"`
}

// ContentCategory is the inferred coarse category of a file's content.
type ContentCategory string

const (
	CategoryDocuments ContentCategory = "documents"
	CategoryImages    ContentCategory = "images"
	CategoryAudio     ContentCategory = "audio"
	CategoryVideo     ContentCategory = "video"
	CategoryArchives  ContentCategory = "archives"
	CategoryCode      ContentCategory = "code"
	CategoryUnknown   ContentCategory = "unknown"
)

// FileStatus tracks where a file is in the organize workflow.
type FileStatus string

const (
	StatusPending   FileStatus = "pending"
	StatusReady     FileStatus = "ready"
	StatusCompleted FileStatus = "completed"
	StatusSkipped   FileStatus = "skipped"
)

// Destination describes where matched files should go: a logical folder
// name the permission resolver can turn into a root, plus an optional
// subpath template with {year}/{month} tokens expanded per file.
type Destination struct {
	Folder   string `json:"folder" yaml:"folder"`
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	Trash    bool   `json:"trash,omitempty" yaml:"trash,omitempty"`
}

// ExpandTemplate resolves the destination's subpath for one file using
// its modification time. An empty template yields an empty subpath.
func (d Destination) ExpandTemplate(f FileRecord) string {
	if d.Template == "" {
		return ""
	}
	out := d.Template
	out = strings.ReplaceAll(out, "{year}", f.ModifiedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{month}", f.ModifiedAt.Format("01"))
	return out
}

// RiskFlag marks a hazard attached to a proposed action.
type RiskFlag string

const (
	RiskDestructive RiskFlag = "destructive"
	RiskAmbiguous   RiskFlag = "ambiguous"
	RiskSystemPath  RiskFlag = "system_path"
	RiskNewRule     RiskFlag = "new_rule"
)

// Config holds the application configuration assembled by the CLI.
type Config struct {
	Root         string
	OrganizeRoot string
	DBPath       string
	RulesFile    *string
	TrashDir     string
	MaxDepth     uint
	Workers      int
	HistoryLimit int
	DryRun       bool
	Yes          bool
	Interactive  bool
	Verbose      bool
	Json         bool
}
