package presence

import (
	"context"
	"time"

	"github.com/padsync/padsync/internal/domain/file"
)

// Repository provides persistence for presence rows.
// Upsert replaces the whole row for (fileID, userID). ListSince returns rows
// with lastSeen at or after the cutoff. PurgeStale is for the optional
// background reaper, never for read paths.
type Repository interface {
	Upsert(ctx context.Context, p *Presence) error
	Touch(ctx context.Context, fileID, userID string, now time.Time) error
	ListSince(ctx context.Context, fileID string, cutoff time.Time) ([]Presence, error)
	PurgeStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// FileSource resolves files so reports can be authorized against the owning
// project.
type FileSource interface {
	Get(ctx context.Context, id string) (*file.File, error)
}

// Notifier publishes presence changes to live subscribers.
type Notifier interface {
	PresenceChanged(fileID string)
}
