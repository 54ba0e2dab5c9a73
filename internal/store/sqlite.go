package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "options-simulator/internal/errors"
)

// SQLiteStore implements SimulationStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed simulation store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saved_simulations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		input_json TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saved_simulations_updated
		ON saved_simulations(updated_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts or updates a saved simulation. A blank ID gets a fresh
// UUID assigned before the insert.
func (s *SQLiteStore) Save(ctx context.Context, sim *SavedSimulation) error {
	if sim.Name == "" {
		return apperrors.NewValidationError("name", "", "saved simulation requires a name")
	}

	now := time.Now().UTC()
	if sim.ID == "" {
		sim.ID = uuid.NewString()
		sim.CreatedAt = now
	}
	sim.UpdatedAt = now

	payload, err := json.Marshal(sim.Input)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode simulation input")
	}

	query := `
	INSERT INTO saved_simulations (id, name, input_json, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		input_json = excluded.input_json,
		updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query, sim.ID, sim.Name, string(payload), sim.CreatedAt, sim.UpdatedAt)
	if err != nil {
		return apperrors.NewStoreError("save", sim.Name, err)
	}
	return nil
}

// Get retrieves a saved simulation by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*SavedSimulation, error) {
	query := `
	SELECT id, name, input_json, created_at, updated_at
	FROM saved_simulations WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)

	var sim SavedSimulation
	var inputJSON string
	err := row.Scan(&sim.ID, &sim.Name, &inputJSON, &sim.CreatedAt, &sim.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrConfigNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get", id, err)
	}

	if err := json.Unmarshal([]byte(inputJSON), &sim.Input); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode simulation input")
	}
	return &sim, nil
}

// List returns all saved simulations, most recently updated first.
func (s *SQLiteStore) List(ctx context.Context) ([]*SavedSimulation, error) {
	query := `
	SELECT id, name, input_json, created_at, updated_at
	FROM saved_simulations ORDER BY updated_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStoreError("list", "", err)
	}
	defer rows.Close()

	var sims []*SavedSimulation
	for rows.Next() {
		var sim SavedSimulation
		var inputJSON string
		if err := rows.Scan(&sim.ID, &sim.Name, &inputJSON, &sim.CreatedAt, &sim.UpdatedAt); err != nil {
			return nil, apperrors.NewStoreError("list", "", err)
		}
		if err := json.Unmarshal([]byte(inputJSON), &sim.Input); err != nil {
			return nil, apperrors.Wrap(err, "failed to decode simulation input")
		}
		sims = append(sims, &sim)
	}
	return sims, rows.Err()
}

// Delete removes a saved simulation by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_simulations WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("delete", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("delete", id, err)
	}
	if affected == 0 {
		return apperrors.ErrConfigNotFound
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ SimulationStore = (*SQLiteStore)(nil)
