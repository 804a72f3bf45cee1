// Package server provides the browser UI of the job tracker: a server-rendered list with
// a modal form, transient notifications and a refresh event stream.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-tracker/internal/jobstore"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/jonathan/job-tracker/internal/types"
)

// ErrJobNotFound indicates the job is not in the session's displayed list
type ErrJobNotFound struct {
	ID types.JobID
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job application not found: %s", e.ID)
}

// ErrBadRequest indicates a malformed request
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return "bad request: " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound   *ErrJobNotFound
		badRequest *ErrBadRequest
		validation *jobstore.ValidationError
		transport  *jobstore.TransportError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, tracker.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrors maps client-side validation failures to form field names.
func fieldErrors(err error) map[string]string {
	var validation *jobstore.ValidationError
	if !errors.As(err, &validation) || len(validation.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(validation.Fields))
	for _, f := range validation.Fields {
		out[f.Field] = f.Message
	}
	return out
}
