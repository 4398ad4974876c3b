package file

import "time"

// File is a single editable document within a project. Content is an opaque
// blob; the store has no notion of lines or characters.
type File struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Content      string    `json:"content"`
	Language     string    `json:"language"`
	CreatedBy    string    `json:"created_by"`
	LastEditedBy string    `json:"last_edited_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Info is a listing entry without the content blob.
type Info struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Language     string    `json:"language"`
	LastEditedBy string    `json:"last_edited_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot is what a reader gets back from Read.
type Snapshot struct {
	Content      string    `json:"content"`
	Language     string    `json:"language"`
	LastEditedBy string    `json:"last_edited_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}
