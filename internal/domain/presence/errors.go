package presence

import "errors"

var (
	// ErrInvalidCursor indicates malformed cursor coordinates.
	ErrInvalidCursor = errors.New("invalid cursor position")
	// ErrInvalidInput indicates invalid presence input.
	ErrInvalidInput = errors.New("invalid presence input")
)
