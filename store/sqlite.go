// Package store persists game state snapshots per game id and move
// index, so finished and in-flight games can be inspected and replayed.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"catan/game"
)

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("game state not found")

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database. Pass ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-only snapshot workload.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS game_states (
		game_id     TEXT    NOT NULL,
		state_index INTEGER NOT NULL,
		payload     TEXT    NOT NULL,
		created_at  TEXT    NOT NULL,
		PRIMARY KEY (game_id, state_index)
	);`)
	return err
}

// SaveState stores the snapshot of gameID at the given move index,
// replacing any earlier snapshot at the same index.
func (s *Store) SaveState(ctx context.Context, gameID string, index int, state *game.GameState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO game_states (game_id, state_index, payload, created_at) VALUES (?, ?, ?, ?)`,
		gameID, index, string(payload), time.Now().UTC().Format(time.RFC3339))
	return err
}

// State loads the snapshot of gameID at index; a negative index loads
// the latest one.
func (s *Store) State(ctx context.Context, gameID string, index int) (*game.GameState, int, error) {
	query := `SELECT state_index, payload FROM game_states WHERE game_id = ? AND state_index = ?`
	args := []any{gameID, index}
	if index < 0 {
		query = `SELECT state_index, payload FROM game_states WHERE game_id = ? ORDER BY state_index DESC LIMIT 1`
		args = []any{gameID}
	}

	var storedIndex int
	var payload string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&storedIndex, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}

	var state game.GameState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, 0, fmt.Errorf("decode state: %w", err)
	}
	state.Rebind()
	return &state, storedIndex, nil
}

// LatestIndex returns the highest stored move index for gameID.
func (s *Store) LatestIndex(ctx context.Context, gameID string) (int, error) {
	var index sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(state_index) FROM game_states WHERE game_id = ?`, gameID).Scan(&index)
	if err != nil {
		return 0, err
	}
	if !index.Valid {
		return 0, ErrNotFound
	}
	return int(index.Int64), nil
}
