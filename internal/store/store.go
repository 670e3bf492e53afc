package store

import (
	"context"
	"errors"
	"time"

	"github.com/nhle/worklog-dashboard/internal/model"
)

// ErrNotFound is returned when no snapshot exists for a range.
var ErrNotFound = errors.New("snapshot not found")

// Store defines the persistence interface for fetched worklog snapshots.
type Store interface {
	// SaveSnapshot persists snap. A snapshot without an ID gets a new UUID.
	SaveSnapshot(ctx context.Context, snap model.Snapshot) error

	// GetLatestSnapshot returns the most recently fetched snapshot for
	// rangeKey, or ErrNotFound.
	GetLatestSnapshot(ctx context.Context, rangeKey string) (*model.Snapshot, error)

	// PruneSnapshots deletes snapshots fetched before olderThan and
	// returns how many were removed.
	PruneSnapshots(ctx context.Context, olderThan time.Time) (int64, error)
}
