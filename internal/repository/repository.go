package repository

import (
	"context"

	"nxfacts/internal/domain"
)

// SnapshotRepository persists gather results
type SnapshotRepository interface {
	// SaveRun stores snap, assigning ID and CreatedAt when unset
	SaveRun(ctx context.Context, snap *domain.Snapshot) error
	GetRun(ctx context.Context, id string) (*domain.Snapshot, error)
	// LatestRun returns the newest run for host
	LatestRun(ctx context.Context, host string) (*domain.Snapshot, error)
	// ListRuns returns summaries newest first; an empty host lists every device
	ListRuns(ctx context.Context, host string, limit int) ([]domain.SnapshotSummary, error)
	DeleteRun(ctx context.Context, id string) error

	Close() error
}
