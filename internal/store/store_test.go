package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/file-butler/go/internal/command"
	"github.com/file-butler/go/internal/rules"
	"github.com/file-butler/go/internal/types"
	"github.com/stretchr/testify/assert"
)

func openTemp(t *testing.T) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "store_test")
	assert.NoError(t, err)

	s, err := Open(filepath.Join(tmpDir, "butler.db"))
	assert.NoError(t, err)

	return s, func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "store_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	s, err := Open(filepath.Join(tmpDir, "nested", "dir", "butler.db"))
	assert.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestRulesRoundTrip(t *testing.T) {
	s, cleanup := openTemp(t)
	defer cleanup()

	ruleset := []rules.Rule{
		{
			ID:          "r2",
			Name:        "Second",
			Conditions:  []rules.Condition{rules.ExtensionIs{Value: "jpg"}},
			Operator:    rules.OperatorAll,
			SortOrder:   20,
			Origin:      rules.OriginSystem,
			Enabled:     true,
			Destination: types.Destination{Folder: "Pictures"},
		},
		{
			ID:          "r1",
			Name:        "First",
			Conditions:  []rules.Condition{rules.NameContains{Value: "invoice"}},
			Operator:    rules.OperatorAll,
			SortOrder:   10,
			Origin:      rules.OriginUserSpecific,
			Enabled:     true,
			Destination: types.Destination{Folder: "Finance", Template: "{year}"},
		},
	}
	assert.NoError(t, s.SaveRules(ruleset))

	loaded, err := s.LoadRules()
	assert.NoError(t, err)
	assert.Len(t, loaded, 2)

	// Load order follows sort order, not insert order.
	assert.Equal(t, "First", loaded[0].Name)
	assert.Equal(t, "Second", loaded[1].Name)
	assert.Equal(t, ruleset[1].Conditions, loaded[0].Conditions)
	assert.Equal(t, ruleset[1].Destination, loaded[0].Destination)
}

func TestSaveRulesReplacesExisting(t *testing.T) {
	s, cleanup := openTemp(t)
	defer cleanup()

	old := []rules.Rule{{ID: "old", Name: "Old", Enabled: true, Origin: rules.OriginSystem, Operator: rules.OperatorAll}}
	assert.NoError(t, s.SaveRules(old))
	assert.NoError(t, s.SaveRules(nil))

	loaded, err := s.LoadRules()
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCommandHistoryRoundTrip(t *testing.T) {
	s, cleanup := openTemp(t)
	defer cleanup()

	cmds := []command.Command{
		command.MoveFile{CmdID: "c1", FileID: "f1", From: "/a", To: "/b", PriorStatus: types.StatusReady},
		command.BulkMove{CmdID: "c2", Note: "organize 2 files", Moves: []command.MoveFile{
			{CmdID: "c2", FileID: "f2", From: "/c", To: "/d"},
			{CmdID: "c2", FileID: "f3", From: "/e", To: "/f"},
		}},
	}
	assert.NoError(t, s.SaveCommandHistory(cmds, 1))

	loaded, cursor, err := s.LoadCommandHistory()
	assert.NoError(t, err)
	assert.Equal(t, 1, cursor)
	assert.Len(t, loaded, 2)
	assert.Equal(t, cmds[0], loaded[0])
	assert.Equal(t, cmds[1], loaded[1])
}

func TestEmptyHistoryLoadsClean(t *testing.T) {
	s, cleanup := openTemp(t)
	defer cleanup()

	cmds, cursor, err := s.LoadCommandHistory()
	assert.NoError(t, err)
	assert.Empty(t, cmds)
	assert.Zero(t, cursor)
}

func TestCursorUpdatesOnResave(t *testing.T) {
	s, cleanup := openTemp(t)
	defer cleanup()

	cmds := []command.Command{
		command.MoveFile{CmdID: "c1", From: "/a", To: "/b"},
	}
	assert.NoError(t, s.SaveCommandHistory(cmds, 1))
	assert.NoError(t, s.SaveCommandHistory(cmds, 0))

	_, cursor, err := s.LoadCommandHistory()
	assert.NoError(t, err)
	assert.Zero(t, cursor)
}

func TestActivityRoundTrip(t *testing.T) {
	s, cleanup := openTemp(t)
	defer cleanup()

	base := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	items := []command.ActivityItem{
		{ID: "a1", CommandID: "c1", Outcome: command.OutcomeSuccess, Time: base, Description: "move /a to /b", Undone: true},
		{ID: "a2", CommandID: "c2", Outcome: command.OutcomePartial, Time: base.Add(time.Minute), Description: "organize 3 files"},
	}
	assert.NoError(t, s.SaveActivity(items))

	loaded, err := s.LoadActivity()
	assert.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "a1", loaded[0].ID)
	assert.True(t, loaded[0].Undone)
	assert.Equal(t, command.OutcomePartial, loaded[1].Outcome)
	assert.True(t, loaded[0].Time.Equal(base))
}

func TestPersistenceSurvivesReopen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "store_test")
	assert.NoError(t, err)
	defer os.RemoveAll(tmpDir)
	dbPath := filepath.Join(tmpDir, "butler.db")

	s, err := Open(dbPath)
	assert.NoError(t, err)
	assert.NoError(t, s.SaveCommandHistory([]command.Command{
		command.MoveFile{CmdID: "c1", From: "/a", To: "/b"},
	}, 1))
	assert.NoError(t, s.Close())

	reopened, err := Open(dbPath)
	assert.NoError(t, err)
	defer reopened.Close()

	cmds, cursor, err := reopened.LoadCommandHistory()
	assert.NoError(t, err)
	assert.Len(t, cmds, 1)
	assert.Equal(t, 1, cursor)
}
