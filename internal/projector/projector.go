// Package projector turns live presence snapshots into renderable cursor
// decorations and keeps them reconciled as snapshots change.
package projector

import (
	"sync"

	"github.com/padsync/padsync/internal/domain/presence"
)

// Decoration is a renderable cursor marker for one remote user.
type Decoration struct {
	UserID string
	Label  string
	Color  string
	Cursor presence.Cursor
}

// DecorationSink receives decoration updates from the projector. Implemented
// by the editor widget layer.
type DecorationSink interface {
	Upsert(d Decoration)
	Remove(userID string)
}

// Projector maintains the mapping from user ID to decoration across
// successive snapshots. SelfID is excluded: a user never sees their own
// cursor decorated.
type Projector struct {
	mu      sync.Mutex
	selfID  string
	sink    DecorationSink
	current map[string]Decoration
}

// New creates a projector for the local user rendering into sink.
func New(selfID string, sink DecorationSink) *Projector {
	return &Projector{
		selfID:  selfID,
		sink:    sink,
		current: make(map[string]Decoration),
	}
}

// Apply reconciles a fresh snapshot against the previous one: users absent
// from the snapshot lose their decoration, everyone else is upserted at
// their reported position.
func (p *Projector) Apply(snapshot []presence.Presence) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[string]bool, len(snapshot))
	for _, row := range snapshot {
		if row.UserID == p.selfID {
			continue
		}
		seen[row.UserID] = true
		d := Decoration{
			UserID: row.UserID,
			Label:  row.Name,
			Color:  ColorFor(row.UserID),
			Cursor: row.Cursor,
		}
		p.current[row.UserID] = d
		p.sink.Upsert(d)
	}

	for userID := range p.current {
		if !seen[userID] {
			delete(p.current, userID)
			p.sink.Remove(userID)
		}
	}
}

// Clear removes every decoration, for use on file close or teardown.
func (p *Projector) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for userID := range p.current {
		delete(p.current, userID)
		p.sink.Remove(userID)
	}
}

// Count returns the number of active decorations.
func (p *Projector) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.current)
}
