package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
)

func TestParseCredentialType(t *testing.T) {
	for _, in := range []string{"transcript", " Certificate ", "BADGE"} {
		ct, err := ParseCredentialType(in)
		require.NoError(t, err, in)
		assert.True(t, ct.IsValid())
	}

	_, err := ParseCredentialType("diploma")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = ParseCredentialType("  ")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	assert.False(t, CredentialType("Badge").IsValid())
}

func TestCredentialID(t *testing.T) {
	id := NewCredentialID()
	assert.True(t, strings.HasPrefix(id.String(), "cred_"))

	parsed, err := ParseCredentialID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	for _, bad := range []string{"", "vc_" + strings.TrimPrefix(id.String(), "cred_"), "cred_not-a-uuid"} {
		_, err := ParseCredentialID(bad)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), bad)
	}
}

func TestCredentialRecordJSON(t *testing.T) {
	gpa := 3.9
	record := CredentialRecord{
		ID:               "cred_7d0c2f5e-8a8e-4c8e-9a59-6b3c9d0f6a11",
		StudentID:        domain.AnonymousPrincipal,
		Institution:      "MIT",
		CredentialType:   CredentialTypeTranscript,
		Title:            "BSc Computer Science",
		IssueDate:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		VerificationHash: "ab12",
		Metadata:         Metadata{RecipientName: "Ada Lovelace", GPA: &gpa},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "studentId", "institution", "credentialType", "title", "issueDate", "verificationHash", "metadata"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, map[string]any{"recipientName": "Ada Lovelace", "gpa": 3.9}, raw["metadata"])
}

func TestVerifyResults(t *testing.T) {
	nf := NotFound()
	assert.False(t, nf.IsValid)
	assert.Nil(t, nf.Credential)
	assert.Equal(t, "not found", nf.Message)

	ok := Verified(CredentialRecord{ID: "cred_x"})
	assert.True(t, ok.IsValid)
	assert.Equal(t, CredentialID("cred_x"), ok.Credential.ID)
	assert.Equal(t, "verified", ok.Message)
}
