package file

import (
	"context"
	"time"
)

// Repository provides persistence for files.
// Create and UpdateLocation must fail with repository.ErrDuplicate when the
// (projectID, path, name) triple is already taken; the storage layer enforces
// this with a unique index.
type Repository interface {
	Create(ctx context.Context, f *File) error
	Get(ctx context.Context, id string) (*File, error)
	UpdateContent(ctx context.Context, id, content, editorID string, now time.Time) error
	UpdateLocation(ctx context.Context, id, name, path string, now time.Time) error
	ListForProject(ctx context.Context, projectID string) ([]Info, error)
}

// Notifier publishes file changes to live subscribers.
type Notifier interface {
	FileChanged(fileID string)
	FileTreeChanged(projectID string)
}
