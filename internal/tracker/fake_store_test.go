package tracker

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/jonathan/job-tracker/internal/jobstore"
	"github.com/jonathan/job-tracker/internal/types"
)

var errNetwork = &jobstore.TransportError{Op: "test", URL: "http://store.invalid", Message: "request failed", Cause: errors.New("connection refused")}

// fakeStore is an in-memory job store with switchable failures.
type fakeStore struct {
	mu         sync.Mutex
	jobs       []types.JobApplication
	nextID     int
	failList   error
	failCreate error
	failDelete error
	creates    int
	deletes    int
	block      chan struct{}
}

func newFakeStore(jobs ...types.JobApplication) *fakeStore {
	return &fakeStore{jobs: jobs, nextID: len(jobs) + 1}
}

func (s *fakeStore) ListJobs(_ context.Context) ([]types.JobApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList != nil {
		return nil, s.failList
	}
	out := make([]types.JobApplication, len(s.jobs))
	copy(out, s.jobs)
	return out, nil
}

func (s *fakeStore) CreateJob(ctx context.Context, input types.NewJobApplication) (*types.JobApplication, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.failCreate != nil {
		return nil, s.failCreate
	}
	job := types.JobApplication{
		ID:              types.JobID(strconv.Itoa(s.nextID)),
		CompanyName:     input.CompanyName,
		Role:            input.Role,
		JobType:         input.JobType,
		Location:        input.Location,
		Status:          input.Status,
		ApplicationDate: input.ApplicationDate,
		Links:           input.Links,
	}
	s.nextID++
	s.jobs = append(s.jobs, job)
	return &job, nil
}

func (s *fakeStore) DeleteJob(_ context.Context, id types.JobID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.failDelete != nil {
		return s.failDelete
	}
	for i, job := range s.jobs {
		if job.ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return nil
		}
	}
	return nil
}

func job(id string) types.JobApplication {
	return types.JobApplication{
		ID:          types.JobID(id),
		CompanyName: "Company " + id,
		Role:        "Engineer",
		JobType:     types.JobTypeFullTime,
		Location:    "Remote",
		Status:      types.StatusApplied,
		Links:       []string{},
	}
}

func ids(jobs []types.JobApplication) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID.String()
	}
	return out
}

// recorder collects notifications.
type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

func (r *recorder) count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, item := range r.items {
		if item.Level == level {
			n++
		}
	}
	return n
}
