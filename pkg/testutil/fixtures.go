package testutil

import (
	"fmt"
	"strings"
	"time"

	"credhub/internal/credential/models"
	"credhub/pkg/domain"
)

// Principals are fixed, valid owner identifiers for tests.
var Principals = struct {
	Alice     domain.Principal
	Bob       domain.Principal
	Anonymous domain.Principal
}{
	Alice:     "tasxg-7ryw7-s5kzi-2v6cw-sst2p-rwv3m-jhll4-gu3pz-hi3lr-jfc45-yqe",
	Bob:       "mnnk5-gfqmo-4omau-3uj75-wcco3-qwour-lsvsv-tmcw3-2kwze-f6orv-yqe",
	Anonymous: domain.AnonymousPrincipal,
}

// RecordBuilder builds credential records with sensible defaults.
type RecordBuilder struct {
	record models.CredentialRecord
}

func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{record: models.CredentialRecord{
		ID:               models.NewCredentialID(),
		StudentID:        Principals.Alice,
		Institution:      "MIT",
		CredentialType:   models.CredentialTypeTranscript,
		Title:            "BSc Computer Science",
		IssueDate:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		VerificationHash: strings.Repeat("ab", 32),
		Metadata:         models.Metadata{RecipientName: "Ada Lovelace"},
	}}
}

func (b *RecordBuilder) WithID(id models.CredentialID) *RecordBuilder {
	b.record.ID = id
	return b
}

func (b *RecordBuilder) WithOwner(owner domain.Principal) *RecordBuilder {
	b.record.StudentID = owner
	return b
}

func (b *RecordBuilder) WithTitle(title string) *RecordBuilder {
	b.record.Title = title
	return b
}

func (b *RecordBuilder) WithIssueDate(at time.Time) *RecordBuilder {
	b.record.IssueDate = at
	return b
}

func (b *RecordBuilder) WithMetadata(m models.Metadata) *RecordBuilder {
	b.record.Metadata = m
	return b
}

func (b *RecordBuilder) Build() models.CredentialRecord {
	return b.record.Clone()
}

// CSVHeader is the canonical upload header.
const CSVHeader = "ownerPrincipal,recipientName,institution,credentialType,title,metadata"

// CSV joins the header and the given data lines into an upload body.
func CSV(lines ...string) string {
	return CSVHeader + "\n" + strings.Join(lines, "\n") + "\n"
}

// CSVLine renders one valid data line for owner with the given title.
func CSVLine(owner domain.Principal, title string) string {
	return fmt.Sprintf("%s,Ada Lovelace,MIT,certificate,%s,", owner, title)
}
