// Package live re-expresses reactive store queries as an explicit
// publish/subscribe channel. Topics are keyed by the row set a query depends
// on; services publish after each committed mutation and subscribers re-read
// to obtain a fresh result.
package live

import (
	"sync"
	"time"
)

// Topic keys. A subscriber interested in a query subscribes to the topic of
// the rows that query depends on.
func FileTopic(fileID string) string            { return "file/" + fileID }
func PresenceTopic(fileID string) string        { return "file/" + fileID + "/presence" }
func ProjectFilesTopic(projectID string) string { return "project/" + projectID + "/files" }
func CollaboratorsTopic(projectID string) string {
	return "project/" + projectID + "/collaborators"
}

// Event notifies a subscriber that rows under a topic changed. It carries no
// payload: the receiver re-reads through the service layer, so a dropped or
// coalesced event costs at most one stale read until the next change.
type Event struct {
	Topic string
	At    time.Time
}

// Hub is an in-process fan-out of change notifications.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]chan Event
	nextID uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]chan Event)}
}

// Subscribe registers interest in a topic. The returned channel has a buffer
// of one; pending notifications coalesce rather than block publishers. The
// cancel function must be called on teardown.
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan Event, 1)
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[uint64]chan Event)
	}
	h.subs[topic][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.subs[topic]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
				if len(subs) == 0 {
					delete(h.subs, topic)
				}
			}
		}
	}
	return ch, cancel
}

// Publish notifies every subscriber of the topic. Never blocks: a subscriber
// that already has a pending notification keeps just that one.
func (h *Hub) Publish(topic string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ev := Event{Topic: topic, At: time.Now()}
	for _, ch := range h.subs[topic] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscriptions for a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Domain notifier hooks. These satisfy the per-domain Notifier interfaces so
// services can publish without knowing topic naming.

func (h *Hub) FileChanged(fileID string)            { h.Publish(FileTopic(fileID)) }
func (h *Hub) FileTreeChanged(projectID string)     { h.Publish(ProjectFilesTopic(projectID)) }
func (h *Hub) PresenceChanged(fileID string)        { h.Publish(PresenceTopic(fileID)) }
func (h *Hub) CollaboratorsChanged(projectID string) { h.Publish(CollaboratorsTopic(projectID)) }
