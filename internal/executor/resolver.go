package executor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PermissionError reports a destination the user cannot or will not
// grant access to. It is a per-result failure, never a batch abort.
type PermissionError struct {
	Folder string
	Reason string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("destination %q not accessible: %s", e.Folder, e.Reason)
}

// Resolver turns a logical destination folder name into an accessible
// root location, or a permission failure. Implementations may prompt a
// human out-of-band and block until answered.
type Resolver interface {
	ResolveDestination(folder string) (string, error)
}

// FolderResolver is the default resolver: logical folder names map to
// directories under one organize root. Protected prefixes are denied.
type FolderResolver struct {
	Root      string
	Protected []string
}

func (r *FolderResolver) ResolveDestination(folder string) (string, error) {
	if folder == "" {
		return "", &PermissionError{Folder: folder, Reason: "no folder name"}
	}
	if filepath.IsAbs(folder) || strings.Contains(folder, "..") {
		return "", &PermissionError{Folder: folder, Reason: "folder name must be relative"}
	}
	root := filepath.Join(r.Root, folder)
	for _, p := range r.Protected {
		if p != "" && strings.HasPrefix(root, p) {
			return "", &PermissionError{Folder: folder, Reason: "resolves under a protected location"}
		}
	}
	return root, nil
}
