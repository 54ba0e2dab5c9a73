// Package store provides data persistence implementations.
package store

import (
	"context"
	"time"

	"options-simulator/internal/models"
)

// SavedSimulation is a named, persisted simulation setup that can be
// reloaded and re-run later.
type SavedSimulation struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Input     models.SimulationInput `json:"input"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// SimulationStore persists saved simulation setups.
type SimulationStore interface {
	// Save inserts a new saved simulation, or updates it if the ID
	// already exists.
	Save(ctx context.Context, sim *SavedSimulation) error

	// Get retrieves a saved simulation by ID.
	Get(ctx context.Context, id string) (*SavedSimulation, error)

	// List returns all saved simulations ordered by most recently updated.
	List(ctx context.Context) ([]*SavedSimulation, error)

	// Delete removes a saved simulation by ID.
	Delete(ctx context.Context, id string) error

	// Close releases the underlying resources.
	Close() error
}
