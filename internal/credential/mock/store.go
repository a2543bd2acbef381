// Package mock is an in-memory stand-in for the remote credential service,
// used for local development and tests. Issue and verify wait a simulated
// network latency first; issuance always succeeds.
package mock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"credhub/internal/credential/institutions"
	"credhub/internal/credential/models"
	"credhub/pkg/domain"
)

// Default simulated latencies.
const (
	DefaultIssueLatency  = 500 * time.Millisecond
	DefaultVerifyLatency = 300 * time.Millisecond
)

// DelayFunc waits for d or until ctx is done.
type DelayFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default DelayFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay returns immediately.
func NoDelay(context.Context, time.Duration) error { return nil }

// Store holds issued credentials in issue order.
type Store struct {
	mu           sync.RWMutex
	credentials  []models.CredentialRecord
	institutions *institutions.Registry

	delay         DelayFunc
	issueLatency  time.Duration
	verifyLatency time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

type Option func(*Store)

// WithLatency uses d for both issue and verify.
func WithLatency(d time.Duration) Option {
	return func(s *Store) {
		s.issueLatency = d
		s.verifyLatency = d
	}
}

// WithDelay replaces the wait function. Tests pass NoDelay.
func WithDelay(fn DelayFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.delay = fn
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		institutions:  institutions.NewRegistry(institutions.DefaultInstitutions()...),
		delay:         Sleep,
		issueLatency:  DefaultIssueLatency,
		verifyLatency: DefaultVerifyLatency,
		now:           time.Now,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset drops every credential and restores the known institutions to unauthorized.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = nil
	s.institutions = institutions.NewRegistry(institutions.DefaultInstitutions()...)
}

// IssueCredential records a new credential with a random verification hash.
// It fails only when ctx ends during the simulated latency.
func (s *Store) IssueCredential(ctx context.Context, req models.IssueRequest) (*models.CredentialRecord, error) {
	if err := s.delay(ctx, s.issueLatency); err != nil {
		return nil, err
	}

	record := models.CredentialRecord{
		ID:               models.NewCredentialID(),
		StudentID:        req.Owner,
		Institution:      req.Institution,
		CredentialType:   req.Type,
		Title:            req.Title,
		IssueDate:        s.now().UTC(),
		VerificationHash: randomHash(),
		Metadata:         req.Metadata.Clone(),
	}

	s.mu.Lock()
	s.credentials = append(s.credentials, record)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "mock credential issued",
		"credential_id", record.ID,
		"institution", record.Institution,
	)
	out := record.Clone()
	return &out, nil
}

// VerifyCredential never returns an error for a missing id; only ctx
// cancellation during the simulated latency does.
func (s *Store) VerifyCredential(ctx context.Context, id models.CredentialID) (*models.VerifyResult, error) {
	if err := s.delay(ctx, s.verifyLatency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.ID == id {
			return models.Verified(c.Clone()), nil
		}
	}
	return models.NotFound(), nil
}

func (s *Store) GetCredentialsForOwner(_ context.Context, owner domain.Principal) ([]models.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CredentialRecord, 0)
	for _, c := range s.credentials {
		if c.StudentID == owner {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *Store) SetInstitutionAuthorization(_ context.Context, name string) error {
	s.mu.RLock()
	registry := s.institutions
	s.mu.RUnlock()
	return registry.Authorize(name)
}

func randomHash() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
