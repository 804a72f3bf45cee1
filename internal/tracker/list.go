package tracker

import (
	"context"
	"log"
	"slices"
	"sync"

	"github.com/jonathan/job-tracker/internal/types"
)

// Messages shown for list outcomes.
const (
	MsgLoadFailure   = "Failed to fetch jobs"
	MsgDeleteSuccess = "Job application deleted successfully"
	MsgDeleteFailure = "Failed to delete job application"
	// ConfirmDeletePrompt is the question put to the user before a delete.
	ConfirmDeletePrompt = "Are you sure you want to delete this job application?"
)

// Lister is the part of the store the list needs.
type Lister interface {
	ListJobs(ctx context.Context) ([]types.JobApplication, error)
	DeleteJob(ctx context.Context, id types.JobID) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed is a Confirmer for callers that already asked, e.g. a submitted confirm form.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// State is the load state of a List.
type State int

// List states.
const (
	StateNotLoaded State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateNotLoaded:
		return "not_loaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// ViewKind says what the list renders in place of its content.
type ViewKind string

// View kinds.
const (
	ViewLoading   ViewKind = "loading"
	ViewEmpty     ViewKind = "empty"
	ViewPopulated ViewKind = "populated"
)

// View is a snapshot of what the list displays.
type View struct {
	Kind ViewKind
	Jobs []types.JobApplication
}

// ListOptions configures a List.
type ListOptions struct {
	Notifier Notifier
	Order    Order
}

// List loads every record, keeps the displayed set, and deletes records on request.
// The displayed set is only replaced by a completed load and only shrinks by a
// completed delete.
type List struct {
	store    Lister
	notifier Notifier
	order    Order

	mu    sync.Mutex
	state State
	stale bool
	jobs  []types.JobApplication
}

// NewList creates a list that has not loaded yet.
func NewList(store Lister, opts ListOptions) *List {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	order := opts.Order
	if order == "" {
		order = DefaultOrder
	}
	return &List{
		store:    store,
		notifier: notifier,
		order:    order,
		jobs:     []types.JobApplication{},
	}
}

// State returns the current load state.
func (l *List) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Jobs returns a copy of the displayed records.
func (l *List) Jobs() []types.JobApplication {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.jobs)
}

// View returns what should be rendered right now.
func (l *List) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch {
	case l.state != StateReady:
		return View{Kind: ViewLoading}
	case len(l.jobs) == 0:
		return View{Kind: ViewEmpty, Jobs: []types.JobApplication{}}
	default:
		return View{Kind: ViewPopulated, Jobs: slices.Clone(l.jobs)}
	}
}

// Invalidate marks the displayed set as out of date; the next EnsureLoaded re-fetches.
func (l *List) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stale = true
}

// EnsureLoaded loads on first display and after Invalidate; otherwise it keeps the
// displayed set as is.
func (l *List) EnsureLoaded(ctx context.Context) error {
	l.mu.Lock()
	needed := l.state == StateNotLoaded || l.stale
	l.mu.Unlock()
	if !needed {
		return nil
	}
	return l.Load(ctx)
}

// Load fetches every record and replaces the displayed set. On failure the previously
// displayed set is kept and an error notification is emitted.
func (l *List) Load(ctx context.Context) error {
	l.mu.Lock()
	previous := l.state
	l.state = StateLoading
	l.stale = false
	l.mu.Unlock()

	jobs, err := l.store.ListJobs(ctx)

	l.mu.Lock()
	l.state = StateReady
	if err == nil {
		l.jobs = l.order.Apply(jobs)
	} else if previous == StateNotLoaded {
		l.jobs = []types.JobApplication{}
	}
	l.mu.Unlock()

	if err != nil {
		log.Printf("[tracker] load failed: %v", err)
		l.notifier.Notify(LevelError, MsgLoadFailure)
		return err
	}
	return nil
}

// Delete asks for confirmation, deletes the record, and on success removes it from the
// displayed set without re-fetching. It reports whether the record was deleted. A
// declined (or missing) confirmation sends no request and is not an error.
func (l *List) Delete(ctx context.Context, id types.JobID, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(ConfirmDeletePrompt) {
		return false, nil
	}

	if err := l.store.DeleteJob(ctx, id); err != nil {
		log.Printf("[tracker] delete %s failed: %v", id, err)
		l.notifier.Notify(LevelError, MsgDeleteFailure)
		return false, err
	}

	l.mu.Lock()
	l.jobs = slices.DeleteFunc(slices.Clone(l.jobs), func(job types.JobApplication) bool {
		return job.ID == id
	})
	l.mu.Unlock()

	l.notifier.Notify(LevelSuccess, MsgDeleteSuccess)
	return true, nil
}
