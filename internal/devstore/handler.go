package devstore

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
)

// DefaultPrefix is the collection address of the job-storage API.
const DefaultPrefix = "/api/applications"

// DefaultAllowedOrigins are the browser origins allowed to call the API.
var DefaultAllowedOrigins = []string{"http://localhost:5173"}

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// HandlerOptions configures Handler.
type HandlerOptions struct {
	// Prefix is the collection address; DefaultPrefix when empty.
	Prefix string
	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string
}

type handler struct {
	store  *Store
	prefix string
}

// Handler serves the job-storage API for store:
//
//	GET    prefix       list
//	POST   prefix       create
//	GET    prefix/{id}  fetch one
//	PUT    prefix/{id}  replace one
//	DELETE prefix/{id}  delete
func Handler(store *Store, opts HandlerOptions) http.Handler {
	prefix := strings.TrimRight(opts.Prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	origins := opts.AllowedOrigins
	if origins == nil {
		origins = DefaultAllowedOrigins
	}

	h := &handler{store: store, prefix: prefix}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix, h.handleList)
	mux.HandleFunc("POST "+prefix, h.handleCreate)
	mux.HandleFunc("GET "+prefix+"/{id}", h.handleGet)
	mux.HandleFunc("PUT "+prefix+"/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE "+prefix+"/{id}", h.handleDelete)

	return withCORS(origins, mux)
}

func (h *handler) handleList(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, h.store.List())
}

func (h *handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	job := h.store.Create(input)
	log.Printf("[devstore] created job application %s (%s)", job.ID, job.CompanyName)
	jsonResponse(w, http.StatusOK, job)
}

func (h *handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	job, found := h.store.Get(id)
	if !found {
		errorResponse(w, r, http.StatusNotFound, "job application "+id.String()+" not found")
		return
	}
	jsonResponse(w, http.StatusOK, job)
}

func (h *handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	input, ok := h.decode(w, r)
	if !ok {
		return
	}
	job, found := h.store.Update(id, input)
	if !found {
		errorResponse(w, r, http.StatusNotFound, "job application "+id.String()+" not found")
		return
	}
	jsonResponse(w, http.StatusOK, job)
}

// handleDelete answers 404 for an unknown id, where a bare deleteById would report
// success, so a client deleting a record twice sees the second attempt fail.
func (h *handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if !h.store.Delete(id) {
		errorResponse(w, r, http.StatusNotFound, "job application "+id.String()+" not found")
		return
	}
	log.Printf("[devstore] deleted job application %s", id)
	w.WriteHeader(http.StatusOK)
}

// pathID reads the numeric {id} path value.
func (h *handler) pathID(w http.ResponseWriter, r *http.Request) (types.JobID, bool) {
	raw := r.PathValue("id")
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		errorResponse(w, r, http.StatusBadRequest, "id must be a number")
		return "", false
	}
	return types.JobID(raw), true
}

// decode reads a create/replace payload and checks it against the JSON schema.
func (h *handler) decode(w http.ResponseWriter, r *http.Request) (types.NewJobApplication, bool) {
	var input types.NewJobApplication

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		errorResponse(w, r, http.StatusBadRequest, "failed to read request body")
		return input, false
	}
	if err := schemas.ValidateNewJobApplication(body); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			errorResponse(w, r, http.StatusBadRequest, validationErr.Summary())
		} else {
			log.Printf("[devstore] schema error: %v", err)
			errorResponse(w, r, http.StatusInternalServerError, "schema unavailable")
		}
		return input, false
	}
	if err := json.Unmarshal(body, &input); err != nil {
		errorResponse(w, r, http.StatusBadRequest, "invalid JSON body")
		return input, false
	}
	return input, true
}

// withCORS adds CORS headers for allowed origins and answers preflight requests.
func withCORS(origins []string, next http.Handler) http.Handler {
	allowAll := slices.Contains(origins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || slices.Contains(origins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[devstore] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error body shaped like the store's own error responses.
func errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	jsonResponse(w, status, map[string]any{
		"timestamp": time.Now().Format("2006-01-02T15:04:05.000"),
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
		"path":      r.URL.Path,
	})
}
