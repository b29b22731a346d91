package ports

import (
	"context"

	"github.com/bft-labs/ringwalk/internal/domain"
)

// ReportRepository persists the outcome of a simulation run.
type ReportRepository interface {
	// Load retrieves the last saved summary.
	// Returns an empty summary and nil error if none exists.
	Load(ctx context.Context) (domain.Summary, error)

	// Save persists the summary atomically.
	// Implementations should write to a temp file and rename so that a crash
	// never leaves a partial report behind.
	Save(ctx context.Context, summary domain.Summary) error
}
