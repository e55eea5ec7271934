// Package store persists cellar saves in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/appengine-ltd/vintner/internal/game"
)

// ErrNotFound is returned when a save slot does not exist.
var ErrNotFound = errors.New("save not found")

// Store persists cellar snapshots in SQLite, one row per named slot.
type Store struct {
	sqlDB *sql.DB
}

// SaveInfo describes one save slot without its snapshot payload.
type SaveInfo struct {
	Slot       string
	WineryName string
	Week       int
	SavedAt    time.Time
}

const schema = `CREATE TABLE IF NOT EXISTS cellar_saves (
  slot        TEXT PRIMARY KEY,
  winery_name TEXT NOT NULL,
  week        INTEGER NOT NULL,
  snapshot    TEXT NOT NULL,
  saved_at    INTEGER NOT NULL
)`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite save store at path and creates the schema if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveCellar writes a snapshot of the cellar into the named slot,
// replacing any previous save in that slot.
func (s *Store) SaveCellar(ctx context.Context, slot string, state *game.CellarState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return fmt.Errorf("slot name is required")
	}
	if state == nil {
		return fmt.Errorf("cellar state is required")
	}

	snapshot, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cellar snapshot: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cellar_saves (slot, winery_name, week, snapshot, saved_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
		   winery_name = excluded.winery_name,
		   week        = excluded.week,
		   snapshot    = excluded.snapshot,
		   saved_at    = excluded.saved_at`,
		slot,
		state.Config.WineryName,
		state.Week,
		string(snapshot),
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save cellar: %w", err)
	}
	return nil
}

// LoadCellar reads the snapshot in the named slot back into a cellar state.
func (s *Store) LoadCellar(ctx context.Context, slot string) (*game.CellarState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return nil, fmt.Errorf("slot name is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT snapshot FROM cellar_saves WHERE slot = ?`,
		slot,
	)
	var snapshot string
	if err := row.Scan(&snapshot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load cellar: %w", err)
	}

	var state game.CellarState
	if err := json.Unmarshal([]byte(snapshot), &state); err != nil {
		return nil, fmt.Errorf("decode cellar snapshot: %w", err)
	}
	return &state, nil
}

// ListSaves returns every save slot ordered by most recent first.
func (s *Store) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT slot, winery_name, week, saved_at
		   FROM cellar_saves
		  ORDER BY saved_at DESC, slot ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveInfo
	for rows.Next() {
		var info SaveInfo
		var savedAt int64
		if err := rows.Scan(&info.Slot, &info.WineryName, &info.Week, &savedAt); err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		info.SavedAt = fromMillis(savedAt)
		saves = append(saves, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return saves, nil
}

// DeleteSave removes the named slot if it exists.
func (s *Store) DeleteSave(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return fmt.Errorf("slot name is required")
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cellar_saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
