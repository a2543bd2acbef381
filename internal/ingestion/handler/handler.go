package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"credhub/internal/ingestion/jobs"
	"credhub/internal/ingestion/models"
	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/platform/httputil"
	"credhub/pkg/platform/middleware/request"
	"credhub/pkg/requestcontext"
)

// FormField is the multipart field carrying the uploaded file.
const FormField = "file"

const defaultFilename = "upload.csv"

// pollAfterSeconds is the Retry-After hint on jobs that are still running.
const pollAfterSeconds = "1"

// Ingester parses, validates and issues uploads.
type Ingester interface {
	Ingest(ctx context.Context, filename string, data []byte, progress models.ProgressFunc) (*models.Result, error)
	Prepare(ctx context.Context, filename string, data []byte) ([]models.Row, error)
	ProcessBatch(ctx context.Context, rows []models.Row, progress models.ProgressFunc) (*models.Result, error)
}

// JobRunner runs a batch in the background.
type JobRunner interface {
	Start(ctx context.Context, filename string, total int, process jobs.ProcessFunc) (jobs.Job, error)
}

// JobReader looks up background batches.
type JobReader interface {
	Get(ctx context.Context, id jobs.ID) (jobs.Job, error)
}

// StartedResponse is returned with 202 when issuance continues in the background.
type StartedResponse struct {
	JobID     jobs.ID     `json:"job_id"`
	Status    jobs.Status `json:"status"`
	Total     int         `json:"total"`
	StatusURL string      `json:"status_url"`
}

type Handler struct {
	ingester       Ingester
	runner         JobRunner
	jobs           JobReader
	maxUploadBytes int64
	logger         *slog.Logger
}

func New(ingester Ingester, runner JobRunner, jobs JobReader, maxUploadBytes int64, logger *slog.Logger) *Handler {
	return &Handler{
		ingester:       ingester,
		runner:         runner,
		jobs:           jobs,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Register mounts ingestion endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.With(request.BodyLimit(h.maxUploadBytes)).Post("/v1/ingestions", h.HandleUpload)
	r.Get("/v1/ingestions/template", h.HandleTemplate)
	r.Get("/v1/ingestions/{id}", h.HandleGetJob)
}

// HandleUpload handles POST /v1/ingestions. The file is parsed and validated
// before responding; issuance runs inline with ?wait=true and in the
// background otherwise.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filename, data, err := h.readUpload(r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read upload", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		result, err := h.ingester.Ingest(ctx, filename, data, nil)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, result)
		return
	}

	rows, err := h.ingester.Prepare(ctx, filename, data)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	job, err := h.runner.Start(ctx, filename, len(rows), func(ctx context.Context, progress models.ProgressFunc) (*models.Result, error) {
		return h.ingester.ProcessBatch(ctx, rows, progress)
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start ingestion job", "error", err, "request_id", requestID)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to start ingestion job"))
		return
	}
	w.Header().Set("Location", "/v1/ingestions/"+job.ID.String())
	httputil.WriteJSON(w, http.StatusAccepted, StartedResponse{
		JobID:     job.ID,
		Status:    job.Status,
		Total:     len(rows),
		StatusURL: "/v1/ingestions/" + job.ID.String(),
	})
}

// HandleGetJob handles GET /v1/ingestions/{id}. Unfinished jobs carry a
// Retry-After polling hint.
func (h *Handler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobs.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(r.Context(), "failed to load ingestion job",
				"error", err,
				"job_id", id,
				"request_id", requestcontext.RequestID(r.Context()),
			)
		}
		httputil.WriteError(w, err)
		return
	}
	if !job.IsTerminal() {
		w.Header().Set("Retry-After", pollAfterSeconds)
	}
	httputil.WriteJSON(w, http.StatusOK, job)
}

// HandleTemplate serves the example upload as a CSV attachment.
func (h *Handler) HandleTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": models.TemplateFilename}))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, models.TemplateCSV)
}

// readUpload returns the file of a multipart upload, or the raw body for
// any other content type. Raw bodies may name themselves with ?filename=.
func (h *Handler) readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		filename := strings.TrimSpace(r.URL.Query().Get("filename"))
		if filename == "" {
			filename = defaultFilename
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, h.uploadError(err)
		}
		return filename, data, nil
	}

	file, header, err := r.FormFile(FormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, dErrors.New(dErrors.CodeBadRequest, "multipart field \""+FormField+"\" is required")
		}
		return "", nil, h.uploadError(err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, h.uploadError(err)
	}
	return header.Filename, data, nil
}

func (h *Handler) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "upload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
	}
	return dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read upload")
}
