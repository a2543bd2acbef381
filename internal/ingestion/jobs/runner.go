package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"credhub/internal/ingestion/models"
	"credhub/pkg/requestcontext"
)

// ProcessFunc performs the work of a job, reporting progress as it goes.
type ProcessFunc func(ctx context.Context, progress models.ProgressFunc) (*models.Result, error)

// Runner executes jobs in the background and records their state.
type Runner struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

func NewRunner(store Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{store: store, logger: logger, now: time.Now}
}

// Start saves a pending job of total rows and runs process in the
// background. The job outlives ctx's cancellation but keeps its values.
func (r *Runner) Start(ctx context.Context, filename string, total int, process ProcessFunc) (Job, error) {
	now := r.now()
	job := Job{
		ID:        NewID(),
		Filename:  filename,
		Status:    StatusPending,
		Progress:  models.Progress{Total: total},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Save(ctx, job); err != nil {
		return Job{}, err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(context.WithoutCancel(ctx), job, process)
	}()
	return job, nil
}

// Wait blocks until every started job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, job Job, process ProcessFunc) {
	job.Status = StatusRunning
	r.save(ctx, &job)

	result, err := func() (result *models.Result, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
		}()
		return process(ctx, func(p models.Progress) {
			job.Progress = p
			r.save(ctx, &job)
		})
	}()

	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		r.logger.ErrorContext(ctx, "ingestion job failed",
			"job_id", job.ID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	} else {
		job.Status = StatusCompleted
		job.Result = result
		job.Progress = models.NewProgress(job.Progress.Total, job.Progress.Total)
	}
	r.save(ctx, &job)
}

func (r *Runner) save(ctx context.Context, job *Job) {
	job.UpdatedAt = r.now()
	if err := r.store.Save(ctx, *job); err != nil {
		r.logger.ErrorContext(ctx, "failed to save ingestion job",
			"job_id", job.ID,
			"status", job.Status,
			"error", err,
		)
	}
}
