package mover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Reason classifies why a move failed, with enough precision to display
// and optionally retry.
type Reason string

const (
	ReasonSourceMissing Reason = "source_missing"
	ReasonCollision     Reason = "collision"
	ReasonPermission    Reason = "permission"
	ReasonDiskFull      Reason = "disk_full"
	ReasonIO            Reason = "io"
)

// MoveError is a per-file move failure. It is never fatal to a batch.
type MoveError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *MoveError) Error() string {
	switch e.Reason {
	case ReasonSourceMissing:
		return fmt.Sprintf("source %s no longer exists", e.Path)
	case ReasonCollision:
		return fmt.Sprintf("destination %s already exists", e.Path)
	case ReasonPermission:
		return fmt.Sprintf("no permission to move %s", e.Path)
	case ReasonDiskFull:
		return fmt.Sprintf("disk full while moving %s", e.Path)
	}
	return fmt.Sprintf("cannot move %s: %v", e.Path, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// Local performs real file moves on the local filesystem.
type Local struct{}

// Move moves one file, refusing to overwrite an existing destination.
// Cross-device renames fall back to copy-and-remove.
func (Local) Move(from, to string) error {
	if _, err := os.Lstat(from); err != nil {
		return &MoveError{Path: from, Reason: ReasonSourceMissing, Err: err}
	}
	if _, err := os.Lstat(to); err == nil {
		return &MoveError{Path: to, Reason: ReasonCollision}
	}

	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.EXDEV) {
		log.Debug().Str("from", from).Str("to", to).Msg("Cross-device move, falling back to copy")
		return classify(to, copyAndRemove(from, to))
	}
	return classify(to, err)
}

// CreateIntermediateDirectories creates the directory path, parents
// included.
func (Local) CreateIntermediateDirectories(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return classify(path, err)
	}
	return nil
}

// Exists reports whether anything is at the path. It is the only state
// the undo manager is allowed to re-read.
func (Local) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func copyAndRemove(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(to)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(to)
		return err
	}
	return os.Remove(from)
}

func classify(path string, err error) error {
	if err == nil {
		return nil
	}
	var me *MoveError
	if errors.As(err, &me) {
		return err
	}
	switch {
	case os.IsNotExist(err):
		return &MoveError{Path: path, Reason: ReasonSourceMissing, Err: err}
	case os.IsPermission(err):
		return &MoveError{Path: path, Reason: ReasonPermission, Err: err}
	case errors.Is(err, syscall.ENOSPC):
		return &MoveError{Path: path, Reason: ReasonDiskFull, Err: err}
	}
	return &MoveError{Path: filepath.Clean(path), Reason: ReasonIO, Err: err}
}
