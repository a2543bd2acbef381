package models

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
)

// CredentialType is the closed set of credential kinds.
type CredentialType string

const (
	CredentialTypeTranscript  CredentialType = "transcript"
	CredentialTypeCertificate CredentialType = "certificate"
	CredentialTypeBadge       CredentialType = "badge"

	credentialIDPrefix = "cred_"
)

// CredentialTypes lists every supported type in display order.
var CredentialTypes = []CredentialType{
	CredentialTypeTranscript,
	CredentialTypeCertificate,
	CredentialTypeBadge,
}

// ParseCredentialType validates a credential type string, ignoring case and
// surrounding whitespace.
func ParseCredentialType(value string) (CredentialType, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", dErrors.New(dErrors.CodeValidation, "credential type is required")
	}
	for _, t := range CredentialTypes {
		if CredentialType(v) == t {
			return t, nil
		}
	}
	return "", dErrors.New(dErrors.CodeValidation, "unsupported credential type "+value)
}

func (t CredentialType) IsValid() bool {
	return slices.Contains(CredentialTypes, t)
}

func (t CredentialType) String() string {
	return string(t)
}

// CredentialID is the prefixed identifier for issued credentials.
type CredentialID string

// NewCredentialID generates a new credential ID with a stable prefix.
func NewCredentialID() CredentialID {
	return CredentialID(credentialIDPrefix + uuid.NewString())
}

// ParseCredentialID validates and parses a credential ID string.
func ParseCredentialID(value string) (CredentialID, error) {
	if strings.TrimSpace(value) == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential id is required")
	}
	if !strings.HasPrefix(value, credentialIDPrefix) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "credential id must start with "+credentialIDPrefix)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(value, credentialIDPrefix)); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid credential id format")
	}
	return CredentialID(value), nil
}

func (id CredentialID) String() string {
	return string(id)
}

// IssueRequest carries everything needed to issue one credential.
type IssueRequest struct {
	Owner       domain.Principal
	Institution string
	Type        CredentialType
	Title       string
	Metadata    Metadata
}

// CredentialRecord is an issued credential as persisted and served over the API.
type CredentialRecord struct {
	ID               CredentialID     `json:"id"`
	StudentID        domain.Principal `json:"studentId"`
	Institution      string           `json:"institution"`
	CredentialType   CredentialType   `json:"credentialType"`
	Title            string           `json:"title"`
	IssueDate        time.Time        `json:"issueDate"`
	VerificationHash string           `json:"verificationHash"`
	Metadata         Metadata         `json:"metadata"`
}

// Clone returns a copy that shares no mutable state with r.
func (r CredentialRecord) Clone() CredentialRecord {
	r.Metadata = r.Metadata.Clone()
	return r
}

// Verification messages.
const (
	MessageVerified     = "verified"
	MessageNotFound     = "not found"
	MessageHashMismatch = "verification hash mismatch"
)

// VerifyResult is the outcome of a verification lookup. Absence is a valid
// negative result, never an error.
type VerifyResult struct {
	IsValid    bool              `json:"isValid"`
	Credential *CredentialRecord `json:"credential,omitempty"`
	Message    string            `json:"message"`
}

// Verified wraps a found record.
func Verified(record CredentialRecord) *VerifyResult {
	return &VerifyResult{IsValid: true, Credential: &record, Message: MessageVerified}
}

// NotFound is the result for an unknown credential id.
func NotFound() *VerifyResult {
	return &VerifyResult{IsValid: false, Message: MessageNotFound}
}

// Institution is an issuer known to the credential backend.
type Institution struct {
	Name       string `json:"name" yaml:"name"`
	Authorized bool   `json:"authorized" yaml:"authorized"`
}
