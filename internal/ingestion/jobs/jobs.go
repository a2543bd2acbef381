// Package jobs tracks uploads whose issuance continues after the HTTP
// request has returned.
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"credhub/internal/ingestion/models"
	dErrors "credhub/pkg/domain-errors"
)

// DefaultTTL is how long finished and running jobs stay retrievable.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned for unknown or expired job ids.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "ingestion job not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ID identifies an ingestion job.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// ParseID validates a job id string.
func ParseID(value string) (ID, error) {
	if _, err := uuid.Parse(value); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid job id format")
	}
	return ID(value), nil
}

func (id ID) String() string {
	return string(id)
}

// Job is the persisted state of one background upload.
type Job struct {
	ID        ID              `json:"id"`
	Filename  string          `json:"filename,omitempty"`
	Status    Status          `json:"status"`
	Progress  models.Progress `json:"progress"`
	Result    *models.Result  `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// IsTerminal reports whether the job will not change again.
func (j Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Store persists jobs. Save overwrites any job with the same id.
type Store interface {
	Save(ctx context.Context, job Job) error
	Get(ctx context.Context, id ID) (Job, error)
}
