package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/file-butler/go/internal/command"
	"github.com/file-butler/go/internal/rules"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

// Store persists rules, command history and activity records across
// process restarts. The decision core itself only ever sees in-memory
// values; this is the boundary where they become rows.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure database: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS rules (
			id TEXT PRIMARY KEY,
			sort_order INTEGER NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS commands (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS activity (
			id TEXT PRIMARY KEY,
			command_id TEXT NOT NULL,
			outcome TEXT NOT NULL,
			description TEXT NOT NULL,
			ts DATETIME NOT NULL,
			undone INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, schema := range schemas {
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRules replaces the persisted rule set.
func (s *Store) SaveRules(ruleset []rules.Rule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rules`); err != nil {
		return err
	}
	for _, r := range ruleset {
		payload, err := json.Marshal(rules.EncodeRule(r))
		if err != nil {
			return fmt.Errorf("encode rule %q: %w", r.Name, err)
		}
		if _, err := tx.Exec(`INSERT INTO rules (id, sort_order, payload) VALUES (?, ?, ?)`,
			r.ID, r.SortOrder, string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadRules reads the persisted rule set, ordered by sort order.
func (s *Store) LoadRules() ([]rules.Rule, error) {
	rows, err := s.db.Query(`SELECT payload FROM rules ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rules.Rule
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var p rules.RulePayload
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("decode rule payload: %w", err)
		}
		r, err := rules.DecodeRule(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveCommandHistory replaces the persisted command log and cursor.
func (s *Store) SaveCommandHistory(cmds []command.Command, cursor int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM commands`); err != nil {
		return err
	}
	for _, c := range cmds {
		payload, err := command.EncodeJSON(c)
		if err != nil {
			return fmt.Errorf("encode command %s: %w", c.ID(), err)
		}
		if _, err := tx.Exec(`INSERT INTO commands (payload) VALUES (?)`, string(payload)); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('cursor', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, fmt.Sprintf("%d", cursor)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadCommandHistory reads the persisted command log and cursor.
// Commands of unknown kind fail the load rather than being dropped.
func (s *Store) LoadCommandHistory() ([]command.Command, int, error) {
	rows, err := s.db.Query(`SELECT payload FROM commands ORDER BY seq`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cmds []command.Command
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, err
		}
		c, err := command.DecodeJSON([]byte(payload))
		if err != nil {
			return nil, 0, err
		}
		cmds = append(cmds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	cursor := len(cmds)
	var raw string
	err = s.db.QueryRow(`SELECT value FROM meta WHERE key = 'cursor'`).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		// Legacy history without a cursor: everything counts as applied.
	case err != nil:
		return nil, 0, err
	default:
		if _, err := fmt.Sscanf(raw, "%d", &cursor); err != nil {
			log.Warn().Str("value", raw).Msg("Unreadable cursor value, assuming tail")
			cursor = len(cmds)
		}
	}
	return cmds, cursor, nil
}

// SaveActivity replaces the persisted activity records.
func (s *Store) SaveActivity(items []command.ActivityItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM activity`); err != nil {
		return err
	}
	for _, it := range items {
		undone := 0
		if it.Undone {
			undone = 1
		}
		if _, err := tx.Exec(`INSERT INTO activity (id, command_id, outcome, description, ts, undone)
			VALUES (?, ?, ?, ?, ?, ?)`,
			it.ID, it.CommandID, string(it.Outcome), it.Description, it.Time, undone); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadActivity reads the persisted activity records, oldest first.
func (s *Store) LoadActivity() ([]command.ActivityItem, error) {
	rows, err := s.db.Query(`SELECT id, command_id, outcome, description, ts, undone FROM activity ORDER BY ts, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []command.ActivityItem
	for rows.Next() {
		var it command.ActivityItem
		var outcome string
		var undone int
		if err := rows.Scan(&it.ID, &it.CommandID, &outcome, &it.Description, &it.Time, &undone); err != nil {
			return nil, err
		}
		it.Outcome = command.Outcome(outcome)
		it.Undone = undone == 1
		out = append(out, it)
	}
	return out, rows.Err()
}
