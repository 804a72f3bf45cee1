package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/jobstore"
	"github.com/jonathan/job-tracker/internal/overlay"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
)

// DismissEvent is published when the user clicks outside the modal, presses Escape or
// uses the close button.
type DismissEvent struct {
	Reason string
}

// Event is broadcast to every open event stream.
type Event struct {
	Kind string `json:"kind"`
	// Origin is the session that caused the event; its own stream skips it.
	Origin uuid.UUID `json:"-"`
}

// Event kinds.
const (
	EventRefresh = "refresh"
)

// Session is the UI state of one browser: the form, the list, pending notifications
// and the modal that hosts the form.
type Session struct {
	ID      uuid.UUID
	Form    *tracker.Form
	List    *tracker.List
	Toasts  *tracker.Toasts
	Modal   *overlay.Overlay
	Dismiss *overlay.Hub[DismissEvent]

	mu       sync.Mutex
	lastSeen time.Time
}

// OpenModal shows the form. The modal closes on the next dismiss event.
func (s *Session) OpenModal() {
	s.Modal.Open(overlay.DismissOn(s.Dismiss, nil))
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// sessionOptions configures new sessions.
type sessionOptions struct {
	store    jobstore.Store
	order    tracker.Order
	toastTTL time.Duration
	// onCreated runs after a session's form created a record.
	onCreated func(sess *Session, created types.JobApplication)
}

// sessionStore keeps sessions in memory, keyed by cookie id.
type sessionStore struct {
	opts sessionOptions
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func newSessionStore(opts sessionOptions, ttl time.Duration) *sessionStore {
	return &sessionStore{
		opts:     opts,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// get returns the session for id, creating it on first use.
func (st *sessionStore) get(id uuid.UUID) *Session {
	now := st.now()
	st.mu.Lock()
	sess, ok := st.sessions[id]
	if !ok {
		sess = st.newSession(id)
		st.sessions[id] = sess
	}
	st.mu.Unlock()

	sess.touch(now)
	return sess
}

func (st *sessionStore) newSession(id uuid.UUID) *Session {
	sess := &Session{
		ID:      id,
		Toasts:  tracker.NewToasts(st.opts.toastTTL),
		Dismiss: overlay.NewHub[DismissEvent](),
	}
	sess.List = tracker.NewList(st.opts.store, tracker.ListOptions{
		Notifier: sess.Toasts,
		Order:    st.opts.order,
	})
	sess.Form = tracker.NewForm(st.opts.store, tracker.FormOptions{
		Notifier: sess.Toasts,
		OnSuccess: func(created types.JobApplication) {
			sess.List.Invalidate()
			sess.Modal.Close()
			if st.opts.onCreated != nil {
				st.opts.onCreated(sess, created)
			}
		},
	})
	// Dismissing the modal discards whatever was typed, like unmounting the form.
	sess.Modal = overlay.New(sess.Form.Reset)
	return sess
}

// sweep drops sessions idle for longer than the ttl and returns how many were dropped.
func (st *sessionStore) sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for id, sess := range st.sessions {
		if sess.idleSince().Before(cutoff) {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.Modal.Close()
	}
	return len(expired)
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
