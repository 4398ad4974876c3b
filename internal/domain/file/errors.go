package file

import "errors"

var (
	// ErrFileNotFound indicates the file doesn't exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrDuplicateFile indicates a file already occupies (project, path, name).
	ErrDuplicateFile = errors.New("file already exists at this location")
	// ErrInvalidInput indicates invalid file input.
	ErrInvalidInput = errors.New("invalid file input")
)
