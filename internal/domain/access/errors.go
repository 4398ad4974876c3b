package access

import "errors"

var (
	// ErrUnauthorized indicates the caller lacks the role an operation requires.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNoAccess indicates the caller has no accepted membership in the project.
	ErrNoAccess = errors.New("no access to project")
)
