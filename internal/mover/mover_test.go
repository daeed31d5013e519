package mover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveRelocatesFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mover_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	from := filepath.Join(tmpDir, "a.txt")
	to := filepath.Join(tmpDir, "moved.txt")
	assert.NoError(t, os.WriteFile(from, []byte("content"), 0644))

	m := Local{}
	assert.NoError(t, m.Move(from, to))
	assert.False(t, m.Exists(from))
	assert.True(t, m.Exists(to))

	data, err := os.ReadFile(to)
	assert.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestMoveMissingSource(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mover_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	m := Local{}
	err = m.Move(filepath.Join(tmpDir, "ghost.txt"), filepath.Join(tmpDir, "out.txt"))
	assert.Error(t, err)

	var me *MoveError
	assert.ErrorAs(t, err, &me)
	assert.Equal(t, ReasonSourceMissing, me.Reason)
}

func TestMoveRefusesToOverwrite(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mover_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	from := filepath.Join(tmpDir, "a.txt")
	to := filepath.Join(tmpDir, "b.txt")
	assert.NoError(t, os.WriteFile(from, []byte("source"), 0644))
	assert.NoError(t, os.WriteFile(to, []byte("existing"), 0644))

	m := Local{}
	err = m.Move(from, to)
	assert.Error(t, err)

	var me *MoveError
	assert.ErrorAs(t, err, &me)
	assert.Equal(t, ReasonCollision, me.Reason)

	// Neither file was touched.
	data, _ := os.ReadFile(to)
	assert.Equal(t, "existing", string(data))
	assert.True(t, m.Exists(from))
}

func TestCreateIntermediateDirectories(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mover_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	m := Local{}
	nested := filepath.Join(tmpDir, "a", "b", "c")
	assert.NoError(t, m.CreateIntermediateDirectories(nested))

	info, err := os.Stat(nested)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent on an existing path.
	assert.NoError(t, m.CreateIntermediateDirectories(nested))
}

func TestMoveIntoCreatedSubdirectory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "mover_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	from := filepath.Join(tmpDir, "report.pdf")
	assert.NoError(t, os.WriteFile(from, []byte("pdf"), 0644))

	m := Local{}
	to := filepath.Join(tmpDir, "Documents", "2024", "report.pdf")
	assert.NoError(t, m.CreateIntermediateDirectories(filepath.Dir(to)))
	assert.NoError(t, m.Move(from, to))
	assert.True(t, m.Exists(to))
}

func TestMoveErrorUnwraps(t *testing.T) {
	inner := errors.New("root cause")
	err := &MoveError{Path: "/x", Reason: ReasonIO, Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "/x")
}
