package jobs

import (
	"context"
	"slices"
	"sync"
	"time"
)

// InMemoryStore keeps jobs for the lifetime of the process, evicting them
// lazily once they are older than the TTL.
type InMemoryStore struct {
	mu   sync.RWMutex
	jobs map[ID]Job
	ttl  time.Duration
	now  func() time.Time
}

type MemoryOption func(*InMemoryStore)

func WithTTL(ttl time.Duration) MemoryOption {
	return func(s *InMemoryStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) MemoryOption {
	return func(s *InMemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewInMemoryStore(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		jobs: make(map[ID]Job),
		ttl:  DefaultTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Save(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = cloneJob(job)
	s.evictExpired()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id ID) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok || s.expired(job) {
		return Job{}, ErrNotFound
	}
	return cloneJob(job), nil
}

func (s *InMemoryStore) expired(job Job) bool {
	return s.now().Sub(job.UpdatedAt) > s.ttl
}

// evictExpired must be called with mu held for writing.
func (s *InMemoryStore) evictExpired() {
	for id, job := range s.jobs {
		if s.expired(job) {
			delete(s.jobs, id)
		}
	}
}

func cloneJob(job Job) Job {
	if job.Result != nil {
		result := *job.Result
		result.Errors = slices.Clone(job.Result.Errors)
		result.CredentialIDs = slices.Clone(job.Result.CredentialIDs)
		job.Result = &result
	}
	return job
}
