package server

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-tracker/internal/rendering"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
)

// heartbeatInterval keeps idle event streams from being closed by proxies.
const heartbeatInterval = 25 * time.Second

// eventBuffer is how many events a slow stream may fall behind before events are dropped.
const eventBuffer = 8

// handleIndex renders the full page, loading the list on first display.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	// Load failures are already queued as a toast; the page still renders.
	_ = sess.List.EnsureLoaded(r.Context())

	s.renderPage(w, sess, http.StatusOK, nil)
}

// handleList renders the list fragment with any pending notifications. ?refresh=1
// re-fetches first.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if r.URL.Query().Get("refresh") != "" {
		sess.List.Invalidate()
	}
	_ = sess.List.EnsureLoaded(r.Context())

	var buf bytes.Buffer
	data := rendering.FragmentData{
		List:     sess.List.View(),
		Toasts:   sess.Toasts.Drain(),
		ToastTTL: sess.Toasts.TTL(),
	}
	if err := s.renderer.Fragment(&buf, data); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleOpenModal opens the form modal.
func (s *Server) handleOpenModal(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	sess.OpenModal()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleCloseModal dismisses the modal, discarding the form values.
func (s *Server) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	reason := r.PostFormValue("reason")
	if reason == "" {
		reason = "outside"
	}
	sess.Dismiss.Publish(DismissEvent{Reason: reason})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleCreate submits the form. Failures re-render the page with the modal open and
// the typed values intact.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: err.Error()})
		return
	}

	if _, err := sess.Form.SubmitValues(r.Context(), formValues(r)); err != nil {
		if errors.Is(err, tracker.ErrSubmitInProgress) {
			s.errorResponse(w, err)
			return
		}
		sess.OpenModal()
		_ = sess.List.EnsureLoaded(r.Context())
		s.renderPage(w, sess, HTTPStatus(err), fieldErrors(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleConfirmDelete asks before deleting a displayed job.
func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	id := types.JobID(r.PathValue("id"))
	_ = sess.List.EnsureLoaded(r.Context())

	job, ok := findJob(sess.List.Jobs(), id)
	if !ok {
		s.errorResponse(w, &ErrJobNotFound{ID: id})
		return
	}

	var buf bytes.Buffer
	data := rendering.ConfirmData{Title: s.title, Job: job, Prompt: tracker.ConfirmDeletePrompt}
	if err := s.renderer.Confirm(&buf, data); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleDelete deletes a job once the confirm form was submitted with confirm=yes.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	id := types.JobID(r.PathValue("id"))

	var confirm tracker.Confirmer = tracker.ConfirmFunc(func(string) bool { return false })
	if r.PostFormValue("confirm") == "yes" {
		confirm = tracker.Confirmed
	}

	deleted, err := sess.List.Delete(r.Context(), id, confirm)
	if err != nil {
		// The failure toast is shown on the page we redirect to.
		log.Printf("[server] delete %s: %v", id, err)
	}
	if deleted {
		s.broadcastRefresh(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDismissToast removes a notification before it auto-closes.
func (s *Server) handleDismissToast(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: "invalid notification id"})
		return
	}
	sess.Toasts.Dismiss(id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleEvents streams refresh events caused by other sessions.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	sse, err := NewSSEWriter(w, reconnectDelay)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	events := make(chan Event, eventBuffer)
	sub := s.events.Subscribe(func(e Event) {
		if e.Origin == sess.ID {
			return
		}
		select {
		case events <- e:
		default:
			log.Printf("[server] event stream of session %s is behind, dropping %s", sess.ID, e.Kind)
		}
	})
	defer sub.Close()

	s.streamEvents(r.Context(), sse, events)
}

func (s *Server) streamEvents(ctx context.Context, sse *SSEWriter, events <-chan Event) {
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case e := <-events:
			if err := sse.WriteEvent(e); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := sse.Heartbeat(); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// renderPage renders the full page, showing pending notifications once.
func (s *Server) renderPage(w http.ResponseWriter, sess *Session, status int, errs map[string]string) {
	data := rendering.PageData{
		Title:     s.title,
		List:      sess.List.View(),
		ModalOpen: sess.Modal.IsOpen(),
		Form:      rendering.NewFormData(sess.Form.Values(), sess.Form.Submitting(), errs),
		Toasts:    sess.Toasts.Drain(),
		ToastTTL:  sess.Toasts.TTL(),
	}

	var buf bytes.Buffer
	if err := s.renderer.Page(&buf, data); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func formValues(r *http.Request) tracker.FormValues {
	return tracker.FormValues{
		CompanyName:     r.PostFormValue(tracker.FieldCompanyName),
		Role:            r.PostFormValue(tracker.FieldRole),
		JobType:         r.PostFormValue(tracker.FieldJobType),
		Location:        r.PostFormValue(tracker.FieldLocation),
		Status:          r.PostFormValue(tracker.FieldStatus),
		ApplicationDate: r.PostFormValue(tracker.FieldApplicationDate),
		Links:           r.PostFormValue(tracker.FieldLinks),
	}
}

func findJob(jobs []types.JobApplication, id types.JobID) (types.JobApplication, bool) {
	for _, job := range jobs {
		if job.ID == id {
			return job, true
		}
	}
	return types.JobApplication{}, false
}

