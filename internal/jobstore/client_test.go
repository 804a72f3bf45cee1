package jobstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/api/applications/", nil)
	require.NoError(t, err)
	return client, server
}

func sampleInput() types.NewJobApplication {
	return types.NewJobApplication{
		CompanyName: "Acme Inc.",
		Role:        "Frontend Developer",
		JobType:     types.JobTypeFullTime,
		Location:    "Remote",
		Status:      types.StatusApplied,
		Links:       []string{" a.com", "", "b.com "},
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("not a url", nil)
	require.Error(t, err)

	_, err = NewClient("", nil)
	require.Error(t, err)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("  http://localhost:8080/api/applications/  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/applications", client.BaseURL())
}

func TestListJobs_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/applications", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"companyName":"A","role":"r","jobType":"FULL_TIME","location":"x","status":"APPLIED","links":[]},
			{"id":2,"companyName":"B","role":"r","jobType":"CONTRACT","location":"y","status":"OFFER","links":["b.com"]}
		]`))
	})

	jobs, err := client.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, types.JobID("1"), jobs[0].ID)
	assert.Equal(t, "B", jobs[1].CompanyName)
	assert.Equal(t, []string{"b.com"}, jobs[1].Links)
}

func TestListJobs_EmptyStore(t *testing.T) {
	for _, body := range []string{`[]`, `null`} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		jobs, err := client.ListJobs(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, jobs)
		assert.Empty(t, jobs)
	}
}

func TestListJobs_UndecodableBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := client.ListJobs(context.Background())
	require.Error(t, err)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "list", terr.Op)
	assert.Contains(t, err.Error(), "decode")
}

func TestListJobs_NonSuccessStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ListJobs(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "503")
}

func TestListJobs_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(server.URL, nil)
	require.NoError(t, err)
	server.Close()

	_, err = client.ListJobs(context.Background())
	require.Error(t, err)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.NotNil(t, terr.Unwrap())
}

func TestCreateJob_SendsNormalizedPayload(t *testing.T) {
	var received map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/applications", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":99,"companyName":"Acme Inc.","role":"Frontend Developer","jobType":"FULL_TIME","location":"Remote","status":"APPLIED","links":["a.com","b.com"]}`))
	})

	created, err := client.CreateJob(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, types.JobID("99"), created.ID)
	assert.Equal(t, []string{"a.com", "b.com"}, created.Links)

	_, hasID := received["id"]
	assert.False(t, hasID, "create payload must not carry an id")
	assert.Equal(t, []any{"a.com", "b.com"}, received["links"])
	assert.Equal(t, "FULL_TIME", received["jobType"])
	assert.Equal(t, "APPLIED", received["status"])
}

func TestCreateJob_RejectedByStore(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"timestamp":"2024-01-01T00:00:00","status":400,"error":"Bad Request","path":"/api/applications"}`))
	})

	_, err := client.CreateJob(context.Background(), sampleInput())
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, http.StatusBadRequest, verr.StatusCode)
	assert.Equal(t, "Bad Request", verr.Message)
	assert.False(t, IsTransport(err))
}

func TestCreateJob_MissingFieldsNeverSent(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	input := sampleInput()
	input.CompanyName = ""
	input.Location = ""

	_, err := client.CreateJob(context.Background(), input)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "companyName", verr.Fields[0].Field)
	assert.Equal(t, "is required", verr.Fields[0].Message)
	assert.Equal(t, "location", verr.Fields[1].Field)
	assert.False(t, called)
}

func TestCreateJob_ResponseWithoutID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"companyName":"Acme Inc."}`))
	})

	_, err := client.CreateJob(context.Background(), sampleInput())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "no id")
}

func TestDeleteJob_Success(t *testing.T) {
	var gotPath, gotMethod string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteJob(context.Background(), types.JobID("7")))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/applications/7", gotPath)
}

func TestDeleteJob_NoContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.DeleteJob(context.Background(), types.JobID("7")))
}

func TestDeleteJob_Failure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := client.DeleteJob(context.Background(), types.JobID("7"))
	require.Error(t, err)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	assert.Equal(t, "boom", terr.Message)
}

func TestDeleteJob_EmptyID(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1/api", nil)
	require.NoError(t, err)

	err = client.DeleteJob(context.Background(), "")
	assert.True(t, IsValidation(err))
}

func TestClient_TimeoutOption(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, &Options{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.ListJobs(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestClient_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tracker-test", r.Header.Get("X-Client"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, &Options{Headers: map[string]string{"X-Client": "tracker-test"}})
	require.NoError(t, err)
	_, err = client.ListJobs(context.Background())
	require.NoError(t, err)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "nope", errorMessage([]byte(`{"message":"nope"}`), "fallback"))
	assert.Equal(t, "Bad Request", errorMessage([]byte(`{"error":"Bad Request"}`), "fallback"))
	assert.Equal(t, "plain text", errorMessage([]byte("plain text\n"), "fallback"))
	assert.Equal(t, "fallback", errorMessage(nil, "fallback"))
	assert.Equal(t, "fallback", errorMessage([]byte(`{}`), "fallback"))
}
