package models

import (
	"errors"
	"strings"

	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
	xstrings "credhub/pkg/platform/strings"
	"credhub/pkg/platform/validation"
)

// IssueCredentialRequest is the JSON body of POST /v1/credentials.
type IssueCredentialRequest struct {
	OwnerPrincipal string   `json:"ownerPrincipal"`
	Institution    string   `json:"institution"`
	CredentialType string   `json:"credentialType"`
	Title          string   `json:"title"`
	Metadata       Metadata `json:"metadata"`
}

func (r *IssueCredentialRequest) Normalize() {
	r.OwnerPrincipal = strings.TrimSpace(r.OwnerPrincipal)
	r.Institution = strings.TrimSpace(r.Institution)
	r.CredentialType = strings.ToLower(strings.TrimSpace(r.CredentialType))
	r.Title = strings.TrimSpace(r.Title)
	r.Metadata.RecipientName = strings.TrimSpace(r.Metadata.RecipientName)
	r.Metadata.Courses = xstrings.DedupeAndTrim(r.Metadata.Courses)
	r.Metadata.Skills = xstrings.DedupeAndTrim(r.Metadata.Skills)
}

func (r *IssueCredentialRequest) Validate() error {
	if r.OwnerPrincipal == "" {
		return dErrors.New(dErrors.CodeValidation, "ownerPrincipal is required")
	}
	if r.Institution == "" {
		return dErrors.New(dErrors.CodeValidation, "institution is required")
	}
	if r.CredentialType == "" {
		return dErrors.New(dErrors.CodeValidation, "credentialType is required")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	return errors.Join(
		validation.CheckStringLength("institution", r.Institution, validation.MaxInstitutionLength),
		validation.CheckStringLength("title", r.Title, validation.MaxTitleLength),
		validation.CheckStringLength("metadata.recipientName", r.Metadata.RecipientName, validation.MaxRecipientNameLength),
		validation.CheckStringLength("metadata.notes", r.Metadata.Notes, validation.MaxNotesLength),
		validation.CheckSliceCount("metadata.courses", len(r.Metadata.Courses), validation.MaxListItems),
		validation.CheckEachStringLength("metadata.courses", r.Metadata.Courses, validation.MaxListItemLength),
		validation.CheckSliceCount("metadata.skills", len(r.Metadata.Skills), validation.MaxListItems),
		validation.CheckEachStringLength("metadata.skills", r.Metadata.Skills, validation.MaxListItemLength),
	)
}

// ToIssueRequest parses the owner principal.
func (r *IssueCredentialRequest) ToIssueRequest() (IssueRequest, error) {
	owner, err := domain.ParsePrincipal(r.OwnerPrincipal)
	if err != nil {
		return IssueRequest{}, err
	}
	return IssueRequest{
		Owner:       owner,
		Institution: r.Institution,
		Type:        CredentialType(r.CredentialType),
		Title:       r.Title,
		Metadata:    r.Metadata,
	}, nil
}

// NewIssueCredentialRequest is the inverse of ToIssueRequest.
func NewIssueCredentialRequest(req IssueRequest) IssueCredentialRequest {
	return IssueCredentialRequest{
		OwnerPrincipal: req.Owner.String(),
		Institution:    req.Institution,
		CredentialType: string(req.Type),
		Title:          req.Title,
		Metadata:       req.Metadata,
	}
}

// CredentialList is the body of GET /v1/owners/{principal}/credentials.
type CredentialList struct {
	Credentials []CredentialRecord `json:"credentials"`
}
