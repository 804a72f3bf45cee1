// Package jobstore is a typed client for the external job-storage HTTP API.
//
// The API exposes three operations on a single collection address:
//
//	GET    base       list every record
//	POST   base       create a record, answering with the stored record
//	DELETE base/{id}  delete a record
//
// Calls are single-shot: nothing is retried, cached, batched or coalesced.
package jobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "job-tracker/1.0"

// maxErrorBody bounds how much of an error response is kept for messages.
const maxErrorBody = 4 << 10

// Store is the set of operations the tracker needs from the job-storage API.
type Store interface {
	ListJobs(ctx context.Context) ([]types.JobApplication, error)
	CreateJob(ctx context.Context, input types.NewJobApplication) (*types.JobApplication, error)
	DeleteJob(ctx context.Context, id types.JobID) error
}

// Options configures the client.
type Options struct {
	// HTTPClient is used for all requests; http.DefaultClient when nil.
	HTTPClient *http.Client
	// Timeout bounds each request. Zero leaves the platform default in place.
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() *Options {
	return &Options{UserAgent: DefaultUserAgent}
}

// Client talks to one job-storage collection address.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	headers    map[string]string
}

var _ Store = (*Client)(nil)

// NewClient creates a client for the collection at baseURL.
func NewClient(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid job store base URL %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:    trimmed,
		httpClient: httpClient,
		timeout:    opts.Timeout,
		userAgent:  userAgent,
		headers:    opts.Headers,
	}, nil
}

// BaseURL returns the collection address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListJobs fetches every record in the order the store returns them.
func (c *Client) ListJobs(ctx context.Context) ([]types.JobApplication, error) {
	const op = "list"

	body, status, err := c.do(ctx, op, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		return nil, c.logged(&TransportError{
			Op: op, URL: c.baseURL, StatusCode: status,
			Message: errorMessage(body, "unexpected status"),
		})
	}

	var jobs []types.JobApplication
	if err := json.Unmarshal(body, &jobs); err != nil {
		return nil, c.logged(&TransportError{Op: op, URL: c.baseURL, StatusCode: status, Message: "failed to decode response", Cause: err})
	}
	if jobs == nil {
		jobs = []types.JobApplication{}
	}
	return jobs, nil
}

// CreateJob normalizes and validates input, submits it, and returns the stored record
// including its assigned id.
func (c *Client) CreateJob(ctx context.Context, input types.NewJobApplication) (*types.JobApplication, error) {
	const op = "create"

	input = input.Normalized()
	if err := input.Validate(); err != nil {
		return nil, FromValidator(err)
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode job application: %w", err)
	}

	body, status, err := c.do(ctx, op, http.MethodPost, c.baseURL, payload)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		verr := &ValidationError{StatusCode: status, Message: errorMessage(body, "job store rejected the application")}
		log.Printf("[jobstore] %s rejected: %v", op, verr)
		return nil, verr
	}

	var created types.JobApplication
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, c.logged(&TransportError{Op: op, URL: c.baseURL, StatusCode: status, Message: "failed to decode response", Cause: err})
	}
	if created.ID.IsZero() {
		return nil, c.logged(&TransportError{Op: op, URL: c.baseURL, StatusCode: status, Message: "response carries no id"})
	}
	return &created, nil
}

// DeleteJob deletes the record with the given id. Any non-success status is a failure;
// no response body is expected.
func (c *Client) DeleteJob(ctx context.Context, id types.JobID) error {
	const op = "delete"

	if id.IsZero() {
		return &ValidationError{Message: "job id is required", Fields: []FieldError{{Field: "id", Message: "is required"}}}
	}
	target := c.baseURL + "/" + url.PathEscape(id.String())

	body, status, err := c.do(ctx, op, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	if !success(status) {
		return c.logged(&TransportError{
			Op: op, URL: target, StatusCode: status,
			Message: errorMessage(body, "unexpected status"),
		})
	}
	return nil
}

// do sends one request and returns the body and status. Only failures to complete the
// exchange are returned as errors.
func (c *Client) do(ctx context.Context, op, method, target string, payload []byte) ([]byte, int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, c.logged(&TransportError{Op: op, URL: target, Message: "failed to create request", Cause: err})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, c.logged(&TransportError{Op: op, URL: target, Message: "request failed", Cause: err})
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, c.logged(&TransportError{Op: op, URL: target, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err})
	}
	return body, resp.StatusCode, nil
}

func (c *Client) logged(err *TransportError) error {
	log.Printf("[jobstore] %v", err)
	return err
}

func success(status int) bool {
	return status >= 200 && status < 300
}

// errorMessage extracts a human-readable message from an error body. Spring-style
// {"error": ..., "message": ...} objects are understood; anything else is used as text.
func errorMessage(body []byte, fallback string) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			return parsed.Message
		case parsed.Error != "":
			return parsed.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return fallback
}
