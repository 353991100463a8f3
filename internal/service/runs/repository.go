package runs

import (
	"context"

	"github.com/ignite/audience-simulator/internal/domain"
)

// Repository defines the data access contract for run history.
// Implementations must be safe for concurrent use.
type Repository interface {
	// SaveRun persists a completed run together with the draft it tested.
	SaveRun(ctx context.Context, draft domain.Draft, result *domain.SimulationResult) error

	// ListRuns returns run summaries ordered by timestamp DESC.
	ListRuns(ctx context.Context) ([]domain.RunSummary, error)

	// GetRun returns a full run. Returns ErrNotFound if it doesn't exist.
	GetRun(ctx context.Context, id string) (*domain.RunDetail, error)

	// DeleteRuns removes all stored runs.
	DeleteRuns(ctx context.Context) error
}
