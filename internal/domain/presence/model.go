package presence

import "time"

// Canonical staleness windows. Cursor decorations want near-realtime
// freshness; "who is viewing" summaries tolerate much older rows. Both are
// read-time filters over the same presence rows.
const (
	CursorWindow = 3 * time.Second
	ViewerWindow = 30 * time.Second
)

// Selection is an optional text range attached to a cursor.
type Selection struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	EndLine     int `json:"end_line"`
	EndColumn   int `json:"end_column"`
}

// Cursor is a position within a file, with an optional selection.
type Cursor struct {
	Line      int        `json:"line"`
	Column    int        `json:"column"`
	Selection *Selection `json:"selection,omitempty"`
}

// Valid reports whether all coordinates are non-negative.
func (c Cursor) Valid() bool {
	if c.Line < 0 || c.Column < 0 {
		return false
	}
	if sel := c.Selection; sel != nil {
		if sel.StartLine < 0 || sel.StartColumn < 0 || sel.EndLine < 0 || sel.EndColumn < 0 {
			return false
		}
	}
	return true
}

// Presence is the ephemeral cursor record for one user in one file.
// At most one row exists per (fileID, userID); a new report replaces the
// row wholesale. Rows are never deleted by reads, only filtered by recency.
type Presence struct {
	FileID   string    `json:"file_id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Cursor   Cursor    `json:"cursor"`
	LastSeen time.Time `json:"last_seen"`
}

// LiveAt reports whether the row is fresh enough for the given window.
func (p *Presence) LiveAt(now time.Time, window time.Duration) bool {
	return now.Sub(p.LastSeen) <= window
}
