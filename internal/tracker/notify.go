// Package tracker holds the state of the job form and the job list: what is displayed,
// what is in flight, and which transient notifications the user should see.
package tracker

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultToastTTL is how long a notification stays visible.
const DefaultToastTTL = 3 * time.Second

// Level classifies a notification.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a short-lived, non-blocking message about the outcome of an action.
type Notification struct {
	ID        uuid.UUID
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Notifier surfaces notifications to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

// Notify calls f.
func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

type discardNotifier struct{}

func (discardNotifier) Notify(Level, string) {}

// Toasts keeps the notifications that have not yet auto-closed, newest first.
type Toasts struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
	items []Notification
}

// NewToasts creates a toast queue; a non-positive ttl uses DefaultToastTTL.
func NewToasts(ttl time.Duration) *Toasts {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Toasts{ttl: ttl, now: time.Now}
}

// Notify queues a notification.
func (t *Toasts) Notify(level Level, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := Notification{ID: uuid.New(), Level: level, Message: message, CreatedAt: t.now()}
	t.items = append([]Notification{n}, t.items...)
}

// Active returns the notifications that have not expired and forgets the rest.
func (t *Toasts) Active() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	out := make([]Notification, len(t.items))
	copy(out, t.items)
	return out
}

// Drain returns the unexpired notifications and clears the queue, so each is shown once.
func (t *Toasts) Drain() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked()
	out := t.items
	t.items = nil
	return out
}

// Dismiss removes a notification before it expires.
func (t *Toasts) Dismiss(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, n := range t.items {
		if n.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// TTL returns the auto-close delay.
func (t *Toasts) TTL() time.Duration { return t.ttl }

func (t *Toasts) pruneLocked() {
	cutoff := t.now().Add(-t.ttl)
	kept := t.items[:0]
	for _, n := range t.items {
		if n.CreatedAt.After(cutoff) {
			kept = append(kept, n)
		}
	}
	t.items = kept
}

// WriterNotifier prints notifications as single lines, for terminals.
type WriterNotifier struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterNotifier creates a notifier writing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify writes the message prefixed with a level marker.
//
//nolint:errcheck // terminal output; nothing useful to do on failure
func (n *WriterNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	marker := "•"
	switch level {
	case LevelSuccess:
		marker = "✓"
	case LevelError:
		marker = "✗"
	}
	fmt.Fprintf(n.w, "%s %s\n", marker, message)
}
