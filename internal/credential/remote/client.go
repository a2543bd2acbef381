// Package remote is the HTTP client for a credhub ledger API. It implements
// the same capability as the mock store so either can be injected.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"credhub/internal/credential/models"
	"credhub/internal/platform/tracer"
	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/platform/circuit"
	"credhub/pkg/platform/httputil"
	"credhub/pkg/requestcontext"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    HTTPDoer
	breaker *circuit.Breaker
	tracer  tracer.Tracer
	logger  *slog.Logger
}

func New(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: circuit.New("credential-remote"),
		tracer:  tracer.NewNoop(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) IssueCredential(ctx context.Context, req models.IssueRequest) (*models.CredentialRecord, error) {
	var record models.CredentialRecord
	body := models.NewIssueCredentialRequest(req)
	if _, err := c.do(ctx, "issue", http.MethodPost, "/v1/credentials", body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// VerifyCredential maps a 404 to a negative result.
func (c *Client) VerifyCredential(ctx context.Context, id models.CredentialID) (*models.VerifyResult, error) {
	var result models.VerifyResult
	path := "/v1/credentials/" + url.PathEscape(id.String()) + "/verification"
	if _, err := c.do(ctx, "verify", http.MethodGet, path, nil, &result); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return models.NotFound(), nil
		}
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetCredentialsForOwner(ctx context.Context, owner domain.Principal) ([]models.CredentialRecord, error) {
	var list models.CredentialList
	path := "/v1/owners/" + url.PathEscape(owner.String()) + "/credentials"
	if _, err := c.do(ctx, "list", http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	if list.Credentials == nil {
		list.Credentials = []models.CredentialRecord{}
	}
	return list.Credentials, nil
}

func (c *Client) SetInstitutionAuthorization(ctx context.Context, name string) error {
	path := "/v1/institutions/" + url.PathEscape(name) + "/authorization"
	_, err := c.do(ctx, "authorize", http.MethodPut, path, nil, nil)
	return err
}

// do sends one request through the breaker. out is decoded from 2xx bodies
// when non-nil. Transport failures and 5xx responses count against the
// breaker; other statuses mean the service is up.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (status int, err error) {
	ctx, span := c.tracer.Start(ctx, tracer.SpanRemoteCall,
		tracer.String(tracer.AttrOperation, op),
	)
	defer func() { span.End(err) }()

	if !c.breaker.Allow() {
		span.AddEvent(tracer.EventCircuitOpen)
		return 0, dErrors.New(dErrors.CodeUnavailable, "credential service unavailable")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return 0, ctx.Err()
		}
		c.recordFailure(ctx, op)
		var netErr net.Error
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return 0, dErrors.Wrap(err, dErrors.CodeTimeout, "credential service timed out")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "credential service unreachable")
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int64(tracer.AttrHTTPStatus, int64(resp.StatusCode)))

	if resp.StatusCode >= http.StatusInternalServerError {
		c.recordFailure(ctx, op)
	} else if change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "credential service circuit closed", "breaker", c.breaker.Name())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, dErrors.Wrap(err, dErrors.CodeInternal, "invalid response from credential service")
	}
	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode request")
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

func (c *Client) recordFailure(ctx context.Context, op string) {
	if change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "credential service circuit opened",
			"breaker", c.breaker.Name(),
			"operation", op,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// decodeError maps an error body back to a domain error, falling back to
// the HTTP status when the body carries no known code.
func decodeError(resp *http.Response) error {
	var body httputil.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(data, &body)

	code := dErrors.Code(body.Error)
	if !knownCode(code) {
		code = httputil.HTTPStatusToDomainCode(resp.StatusCode)
	}
	msg := body.ErrorDescription
	if msg == "" {
		msg = fmt.Sprintf("credential service returned %d", resp.StatusCode)
	}
	return dErrors.New(code, msg)
}

func knownCode(code dErrors.Code) bool {
	switch code {
	case dErrors.CodeNotFound, dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation,
		dErrors.CodeInternal, dErrors.CodeConflict, dErrors.CodeUnauthorized, dErrors.CodeForbidden,
		dErrors.CodeTimeout, dErrors.CodeUnavailable:
		return true
	}
	return false
}
