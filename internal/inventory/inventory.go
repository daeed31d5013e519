package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/djherbis/times"
	"github.com/file-butler/go/internal/types"
	"github.com/rs/zerolog/log"
)

// Provider is the default file inventory: it walks a scan root and
// yields FileRecords for the decision engine.
type Provider struct {
	RootPath string
	MaxDepth int
}

// New creates a provider for the given scan root.
func New(path string, maxDepth int) (*Provider, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	return &Provider{
		RootPath: absPath,
		MaxDepth: maxDepth,
	}, nil
}

// List walks the scan root and returns a record per regular file.
// Unreadable entries are logged and skipped, never fatal.
func (p *Provider) List() ([]types.FileRecord, error) {
	var files []types.FileRecord

	err := filepath.Walk(p.RootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path")
			return nil // Continue walking
		}

		relPath, err := filepath.Rel(p.RootPath, path)
		if err != nil {
			return nil
		}
		depth := len(strings.Split(relPath, string(os.PathSeparator)))
		if relPath == "." {
			depth = 0
		}

		if depth > p.MaxDepth {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if p.shouldSkip(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if p.shouldSkip(path) || !info.Mode().IsRegular() {
			return nil
		}

		files = append(files, buildRecord(path, info))
		return nil
	})

	if err != nil {
		return nil, err
	}

	log.Debug().Int("count", len(files)).Msg("Inventory found files")
	return files, nil
}

// buildRecord creates the FileRecord for one file. Identity is the
// xxhash of the absolute path so the same file gets the same identity
// on every rescan.
func buildRecord(path string, info os.FileInfo) types.FileRecord {
	name := info.Name()
	rec := types.FileRecord{
		ID:         Identity(path),
		Name:       name,
		Extension:  filepath.Ext(name),
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
		CreatedAt:  info.ModTime(),
		Path:       path,
		Category:   Categorize(path, name),
	}

	if ts, err := times.Stat(path); err == nil && ts.HasBirthTime() {
		rec.CreatedAt = ts.BirthTime()
	}

	return rec
}

// Identity derives the stable file identity from an absolute path.
func Identity(path string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(path))
}

func (p *Provider) shouldSkip(path string) bool {
	filename := filepath.Base(path)

	// Skip hidden files/folders
	if strings.HasPrefix(filename, ".") {
		return true
	}

	// Skip partial downloads
	if strings.HasSuffix(filename, ".download") || strings.HasSuffix(filename, ".crdownload") || strings.HasSuffix(filename, ".part") {
		return true
	}

	// Skip known system directories
	skipDirs := []string{"node_modules", "__pycache__", "Library", "AppData"}
	for _, d := range skipDirs {
		if filename == d {
			return true
		}
	}

	return false
}
