// Package service runs uploaded rows through the validation gate and then
// issues them one at a time, isolating each row's failure.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	credential "credhub/internal/credential/models"
	"credhub/internal/ingestion/metrics"
	"credhub/internal/ingestion/models"
	"credhub/internal/ingestion/parser"
	"credhub/internal/ingestion/validation"
	"credhub/internal/platform/tracer"
	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Issuer

// Issuer is the issuance capability a batch is run against.
type Issuer interface {
	IssueCredential(ctx context.Context, req credential.IssueRequest) (*credential.CredentialRecord, error)
}

// MessageUnexpected is reported for failures that carry no domain code.
const MessageUnexpected = "unexpected error processing upload"

type Option func(*Service)

// WithIssueTimeout bounds every single issuance call. Zero disables the bound.
func WithIssueTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.issueTimeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type Service struct {
	issuer       Issuer
	issueTimeout time.Duration
	metrics      *metrics.Metrics
	tracer       tracer.Tracer
	logger       *slog.Logger
}

func New(issuer Issuer, opts ...Option) *Service {
	s := &Service{
		issuer: issuer,
		tracer: tracer.NewNoop(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare parses an upload and applies the validation gate. A structural
// problem fails with parser.ErrMalformedInput; any invalid field fails the
// whole upload with a validation error listing every row.
func (s *Service) Prepare(ctx context.Context, filename string, data []byte) ([]models.Row, error) {
	rows, err := parser.Parse(filename, data)
	if err != nil {
		s.logger.WarnContext(ctx, "upload rejected",
			"error", err,
			"filename", filename,
			"request_id", requestcontext.RequestID(ctx),
		)
		if s.metrics != nil {
			s.metrics.ObserveBatch(metrics.OutcomeRejected, 0)
		}
		return nil, err
	}
	if err := s.validate(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Ingest parses, validates and issues an upload. Failures without a domain
// code, panics included, are reported as internal errors.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte, progress models.ProgressFunc) (result *models.Result, err error) {
	defer s.reportUnexpected(ctx, &result, &err)

	rows, err := s.Prepare(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	return s.ProcessBatch(ctx, rows, progress)
}

// reportUnexpected must be deferred directly so recover sees the panic.
func (s *Service) reportUnexpected(ctx context.Context, result **models.Result, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
	if *err == nil || dErrors.CodeOf(*err) != dErrors.CodeInternal {
		return
	}
	s.logger.ErrorContext(ctx, MessageUnexpected,
		"error", *err,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.ObserveBatch(metrics.OutcomeError, 0)
	}
	*result = nil
	*err = dErrors.Wrap(*err, dErrors.CodeInternal, MessageUnexpected)
}

// ProcessBatch validates every row and, only when all rows pass, issues
// them in row order. A row whose issuance errors, panics or yields no
// record is counted as failed and the batch continues. progress, when
// non-nil, is called after every attempted row.
func (s *Service) ProcessBatch(ctx context.Context, rows []models.Row, progress models.ProgressFunc) (result *models.Result, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIngestionBatch,
		tracer.Int64(tracer.AttrRowCount, int64(len(rows))),
	)
	defer func() { span.End(err) }()

	if err := s.validate(ctx, rows); err != nil {
		span.AddEvent(tracer.EventValidationRejected)
		return nil, err
	}

	result = models.NewResult(len(rows))
	for i, row := range rows {
		record, issueErr := s.issueRow(ctx, row)
		if issueErr != nil {
			result.Failed++
			result.Errors = append(result.Errors, row.Tag(issueErr.Error()))
			span.AddEvent(tracer.EventRowFailed, tracer.Int64(tracer.AttrRowNumber, int64(row.Number)))
			s.logger.WarnContext(ctx, "row issuance failed",
				"row", row.Number,
				"error", issueErr,
				"request_id", requestcontext.RequestID(ctx),
			)
		} else {
			result.Success++
			result.CredentialIDs = append(result.CredentialIDs, record.ID.String())
		}
		if progress != nil {
			progress(models.NewProgress(i+1, len(rows)))
		}
	}

	span.SetAttributes(
		tracer.Int64(tracer.AttrSuccessCount, int64(result.Success)),
		tracer.Int64(tracer.AttrFailedCount, int64(result.Failed)),
	)
	if s.metrics != nil {
		s.metrics.ObserveBatch(metrics.OutcomeProcessed, len(rows))
	}
	s.logger.InfoContext(ctx, "ingestion batch processed",
		"total", result.Total,
		"success", result.Success,
		"failed", result.Failed,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}

func (s *Service) validate(ctx context.Context, rows []models.Row) error {
	errs := validation.ValidateBatch(rows)
	if len(errs) == 0 {
		return nil
	}
	if s.metrics != nil {
		s.metrics.ObserveBatch(metrics.OutcomeRejected, len(rows))
		for _, fe := range errs {
			s.metrics.IncrementValidationFailure(fe.Field)
		}
	}
	s.logger.InfoContext(ctx, "upload failed validation",
		"rows", len(rows),
		"errors", len(errs),
		"request_id", requestcontext.RequestID(ctx),
	)
	return errs.Err()
}

func (s *Service) issueRow(ctx context.Context, row models.Row) (record *credential.CredentialRecord, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIngestionRow,
		tracer.Int64(tracer.AttrRowNumber, int64(row.Number)),
		tracer.String(tracer.AttrInstitution, row.Get(models.ColumnInstitution)),
	)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			record, err = nil, fmt.Errorf("issuer panicked: %v", r)
		}
		if s.metrics != nil {
			s.metrics.ObserveIssue(time.Since(start), err == nil)
		}
		span.End(err)
	}()

	req, err := toIssueRequest(row)
	if err != nil {
		return nil, err
	}

	if s.issueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.issueTimeout)
		defer cancel()
	}

	record, err = s.issuer.IssueCredential(ctx, req)
	if err != nil {
		if s.issueTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "issuance timed out after "+s.issueTimeout.String())
		}
		return nil, err
	}
	if record == nil {
		return nil, errors.New("issuer returned no credential")
	}
	span.SetAttributes(tracer.String(tracer.AttrCredentialID, record.ID.String()))
	return record, nil
}

func toIssueRequest(row models.Row) (credential.IssueRequest, error) {
	owner, err := domain.ParsePrincipal(row.Get(models.ColumnOwnerPrincipal))
	if err != nil {
		return credential.IssueRequest{}, err
	}
	metadata, err := credential.ParseMetadata(row.Get(models.ColumnMetadata))
	if err != nil {
		return credential.IssueRequest{}, err
	}
	if metadata.RecipientName == "" {
		metadata.RecipientName = row.Get(models.ColumnRecipientName)
	}
	return credential.IssueRequest{
		Owner:       owner,
		Institution: row.Get(models.ColumnInstitution),
		Type:        credential.CredentialType(strings.ToLower(row.Get(models.ColumnCredentialType))),
		Title:       row.Get(models.ColumnTitle),
		Metadata:    metadata,
	}, nil
}
