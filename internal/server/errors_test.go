package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/job-tracker/internal/jobstore"
	"github.com/jonathan/job-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
)

func TestErrJobNotFound(t *testing.T) {
	err := &ErrJobNotFound{ID: "7"}
	assert.Equal(t, "job application not found: 7", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "in flight", err: tracker.ErrSubmitInProgress, want: http.StatusConflict},
		{name: "bad request", err: &ErrBadRequest{Message: "x"}, want: http.StatusBadRequest},
		{name: "validation", err: &jobstore.ValidationError{Message: "invalid"}, want: http.StatusUnprocessableEntity},
		{name: "wrapped transport", err: fmt.Errorf("list: %w", &jobstore.TransportError{Op: "list"}), want: http.StatusBadGateway},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestFieldErrors(t *testing.T) {
	err := &jobstore.ValidationError{Fields: []jobstore.FieldError{{Field: "role", Message: "is required"}}}
	assert.Equal(t, map[string]string{"role": "is required"}, fieldErrors(err))
	assert.Nil(t, fieldErrors(&jobstore.ValidationError{StatusCode: 400}))
	assert.Nil(t, fieldErrors(errors.New("x")))
}
