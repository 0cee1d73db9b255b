// Package notification turns task events into an in-memory notification feed.
package notification

import (
	"sync"
	"time"
)

// DefaultCapacity bounds the feed; the oldest entries are dropped first.
const DefaultCapacity = 200

// Notification is one feed entry.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	TaskID    string    `json:"task_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed is a bounded, concurrency-safe list of notifications.
type Feed struct {
	mu       sync.RWMutex
	items    []Notification
	capacity int
}

// NewFeed creates a feed holding at most capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity}
}

// Add appends n, evicting the oldest entry when full.
func (f *Feed) Add(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.capacity; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
}

// List returns up to limit entries, newest first. When userID is non-empty
// only that user's entries are returned. limit <= 0 means no limit.
func (f *Feed) List(userID string, limit int) []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Notification, 0, len(f.items))
	for i := len(f.items) - 1; i >= 0; i-- {
		n := f.items[i]
		if userID != "" && n.UserID != userID {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Len returns the number of stored entries.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}
