package collaborator

import "errors"

var (
	// ErrDuplicateInvite indicates an invite already exists for (project, email).
	ErrDuplicateInvite = errors.New("collaborator already invited")
	// ErrInviteNotFound indicates the invite row doesn't exist.
	ErrInviteNotFound = errors.New("invite not found")
	// ErrInvalidInput indicates invalid collaborator input.
	ErrInvalidInput = errors.New("invalid collaborator input")
)
