// Package devstore is an in-memory stand-in for the external job-storage API. It speaks
// the same HTTP contract and is meant for local development and tests; nothing is
// persisted.
package devstore

import (
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/job-tracker/internal/types"
)

// Store keeps job applications in creation order and assigns increasing integer ids.
type Store struct {
	mu     sync.RWMutex
	jobs   []types.JobApplication
	nextID int64
	now    func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{nextID: 1, now: time.Now}
}

// List returns every record in creation order.
func (s *Store) List() []types.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.JobApplication, len(s.jobs))
	for i, job := range s.jobs {
		out[i] = clone(job)
	}
	return out
}

// Get returns the record with the given id.
func (s *Store) Get(id types.JobID) (types.JobApplication, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return clone(s.jobs[i]), true
	}
	return types.JobApplication{}, false
}

// Create stores a new record and returns it with its id and creation time.
func (s *Store) Create(input types.NewJobApplication) types.JobApplication {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := fromInput(input)
	job.ID = types.JobID(strconv.FormatInt(s.nextID, 10))
	job.CreatedAt = &types.LocalDateTime{Time: s.now()}
	s.nextID++
	s.jobs = append(s.jobs, job)
	return clone(job)
}

// Update replaces every field except id and creation time.
func (s *Store) Update(id types.JobID, input types.NewJobApplication) (types.JobApplication, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return types.JobApplication{}, false
	}
	job := fromInput(input)
	job.ID = s.jobs[i].ID
	job.CreatedAt = s.jobs[i].CreatedAt
	s.jobs[i] = job
	return clone(job), true
}

// Delete removes the record with the given id and reports whether it existed.
func (s *Store) Delete(id types.JobID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.jobs = slices.Delete(s.jobs, i, i+1)
	return true
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *Store) indexLocked(id types.JobID) int {
	return slices.IndexFunc(s.jobs, func(job types.JobApplication) bool { return job.ID == id })
}

func fromInput(input types.NewJobApplication) types.JobApplication {
	links := slices.Clone(input.Links)
	if links == nil {
		links = []string{}
	}
	return types.JobApplication{
		CompanyName:     input.CompanyName,
		Role:            input.Role,
		JobType:         input.JobType,
		Location:        input.Location,
		Status:          input.Status,
		ApplicationDate: input.ApplicationDate,
		Links:           links,
	}
}

func clone(job types.JobApplication) types.JobApplication {
	job.Links = slices.Clone(job.Links)
	if job.CreatedAt != nil {
		created := *job.CreatedAt
		job.CreatedAt = &created
	}
	return job
}
