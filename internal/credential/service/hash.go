package service

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/crypto/blake2b"

	"credhub/internal/credential/models"
)

// ComputeHash returns the hex BLAKE2b-256 digest of the record's content
// fields. Fields are NUL separated; metadata is its canonical JSON.
func ComputeHash(record models.CredentialRecord) (string, error) {
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return "", err
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	for _, field := range []string{
		record.StudentID.String(),
		record.Institution,
		string(record.CredentialType),
		record.Title,
		record.IssueDate.UTC().Format(time.RFC3339Nano),
		string(metadata),
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
