// Package service is the authoritative credential backend. Unlike the mock
// store it enforces issuance rules and derives verification hashes from the
// credential content, so tampered records fail verification.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"credhub/internal/credential/models"
	"credhub/internal/credential/store"
	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/requestcontext"
)

// CredentialStore persists issued credentials.
type CredentialStore interface {
	Save(ctx context.Context, record models.CredentialRecord) error
	FindByID(ctx context.Context, id models.CredentialID) (models.CredentialRecord, error)
	ListByOwner(ctx context.Context, owner domain.Principal) ([]models.CredentialRecord, error)
}

// InstitutionRegistry resolves issuers and their authorization.
type InstitutionRegistry interface {
	Lookup(name string) (models.Institution, bool)
	Authorize(name string) error
	ErrUnknown(name string) error
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

type Service struct {
	store        CredentialStore
	institutions InstitutionRegistry
	now          func() time.Time
	logger       *slog.Logger
}

func New(store CredentialStore, institutions InstitutionRegistry, opts ...Option) *Service {
	s := &Service{
		store:        store,
		institutions: institutions,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueCredential validates the request, checks the institution may issue,
// and persists a record whose hash covers every content field.
func (s *Service) IssueCredential(ctx context.Context, req models.IssueRequest) (*models.CredentialRecord, error) {
	if req.Owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner principal is required")
	}
	if _, err := domain.ParsePrincipal(req.Owner.String()); err != nil {
		return nil, err
	}
	credType, err := models.ParseCredentialType(string(req.Type))
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required")
	}

	inst, ok := s.institutions.Lookup(req.Institution)
	if !ok {
		return nil, s.institutions.ErrUnknown(req.Institution)
	}
	if !inst.Authorized {
		return nil, dErrors.New(dErrors.CodeForbidden,
			fmt.Sprintf("institution %q is not authorized to issue credentials", inst.Name))
	}

	record := models.CredentialRecord{
		ID:             models.NewCredentialID(),
		StudentID:      req.Owner,
		Institution:    inst.Name,
		CredentialType: credType,
		Title:          title,
		// Postgres keeps microseconds; the hash must survive a round trip.
		IssueDate: s.now().UTC().Truncate(time.Microsecond),
		Metadata:  req.Metadata.Clone(),
	}
	if record.VerificationHash, err = ComputeHash(record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute verification hash")
	}

	if err := s.store.Save(ctx, record); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save credential")
	}

	s.logger.InfoContext(ctx, "credential issued",
		"credential_id", record.ID,
		"institution", record.Institution,
		"credential_type", record.CredentialType,
		"owner", record.StudentID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return &record, nil
}

// VerifyCredential recomputes the hash of the stored record. Unknown ids and
// hash mismatches are negative results, not errors.
func (s *Service) VerifyCredential(ctx context.Context, id models.CredentialID) (*models.VerifyResult, error) {
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.NotFound(), nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential")
	}

	hash, err := ComputeHash(record)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute verification hash")
	}
	if hash != record.VerificationHash {
		s.logger.WarnContext(ctx, "credential hash mismatch",
			"credential_id", id,
			"request_id", requestcontext.RequestID(ctx),
		)
		return &models.VerifyResult{IsValid: false, Credential: &record, Message: models.MessageHashMismatch}, nil
	}
	return models.Verified(record), nil
}

func (s *Service) GetCredentialsForOwner(ctx context.Context, owner domain.Principal) ([]models.CredentialRecord, error) {
	records, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list credentials")
	}
	if records == nil {
		records = []models.CredentialRecord{}
	}
	return records, nil
}

func (s *Service) SetInstitutionAuthorization(ctx context.Context, name string) error {
	if err := s.institutions.Authorize(name); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "institution authorized",
		"institution", strings.TrimSpace(name),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}
