package mcp

import (
	"errors"
	"fmt"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/domain/project"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Authorization failures and
// missing resources map to distinct codes, except where collapsing them is
// the point: membership checks run before existence checks, so a non-member
// always sees UNAUTHORIZED regardless of whether the project exists.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, access.ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "caller lacks the required role", RecoveryHint: "Check project membership and role"}
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, file.ErrFileNotFound),
		errors.Is(err, collaborator.ErrInviteNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "resource not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, collaborator.ErrDuplicateInvite):
		return &APIError{Code: "DUPLICATE_INVITE", Message: "email already invited to this project", RecoveryHint: "List collaborators to see the existing invite"}
	case errors.Is(err, file.ErrDuplicateFile):
		return &APIError{Code: "DUPLICATE_FILE", Message: "a file already exists at this path and name", RecoveryHint: "Pick a different name or path"}
	case errors.Is(err, presence.ErrInvalidCursor),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, collaborator.ErrInvalidInput),
		errors.Is(err, file.ErrInvalidInput),
		errors.Is(err, presence.ErrInvalidInput):
		return &APIError{Code: "VALIDATION_ERROR", Message: err.Error(), RecoveryHint: "Fix the request parameters"}
	default:
		return nil
	}
}

// mapError wraps a domain error in an APIError when a mapping exists,
// otherwise passes the error through unchanged.
func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
