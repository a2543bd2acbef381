package store

import (
	"context"

	"credhub/internal/credential/models"
	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "credential not found")
	// ErrConflict is returned when a credential id is already taken.
	ErrConflict = dErrors.New(dErrors.CodeConflict, "credential id already exists")
)

// Store persists issued credentials. Records are immutable once saved.
type Store interface {
	Save(ctx context.Context, record models.CredentialRecord) error
	FindByID(ctx context.Context, id models.CredentialID) (models.CredentialRecord, error)
	// ListByOwner returns the owner's credentials in issue order, never nil.
	ListByOwner(ctx context.Context, owner domain.Principal) ([]models.CredentialRecord, error)
}
