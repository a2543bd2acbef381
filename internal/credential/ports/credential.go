// Package ports declares the credential capability the rest of the system
// depends on. Implementations: mock (in-memory), remote (HTTP client) and
// the ledger service.
package ports

import (
	"context"

	"credhub/internal/credential/models"
	"credhub/pkg/domain"
)

//go:generate mockgen -source=credential.go -destination=mocks/mocks.go -package=mocks CredentialService

// CredentialService issues and verifies credentials.
type CredentialService interface {
	IssueCredential(ctx context.Context, req models.IssueRequest) (*models.CredentialRecord, error)
	// VerifyCredential reports absence as a negative result, not an error.
	VerifyCredential(ctx context.Context, id models.CredentialID) (*models.VerifyResult, error)
	// GetCredentialsForOwner returns a non-nil slice in issue order.
	GetCredentialsForOwner(ctx context.Context, owner domain.Principal) ([]models.CredentialRecord, error)
	// SetInstitutionAuthorization marks a known institution authorized.
	// Unknown names fail with a not_found domain error.
	SetInstitutionAuthorization(ctx context.Context, name string) error
}
