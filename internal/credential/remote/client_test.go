package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"credhub/internal/credential/models"
	"credhub/internal/credential/ports"
	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/platform/circuit"
	"credhub/pkg/platform/httputil"
	"credhub/pkg/requestcontext"
	"credhub/pkg/testutil"
)

var _ ports.CredentialService = (*Client)(nil)

type ClientSuite struct {
	suite.Suite
	ctx     context.Context
	server  *httptest.Server
	handler http.HandlerFunc
	client  *Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.ctx = context.Background()
	s.handler = func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))
	s.client = s.newClient()
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) newClient(opts ...Option) *Client {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(Config{BaseURL: s.server.URL, APIKey: "secret", Timeout: time.Second}, opts...)
}

func (s *ClientSuite) TestIssueCredential() {
	s.Run("posts the request and decodes the record", func() {
		want := testutil.NewRecordBuilder().Build()
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			s.Equal(http.MethodPost, r.Method)
			s.Equal("/v1/credentials", r.URL.Path)
			s.Equal("secret", r.Header.Get("X-API-Key"))
			s.Equal("req-42", r.Header.Get("X-Request-ID"))

			var body models.IssueCredentialRequest
			s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
			s.Equal(testutil.Principals.Alice.String(), body.OwnerPrincipal)
			s.Equal("Ada Lovelace", body.Metadata.RecipientName)
			httputil.WriteJSON(w, http.StatusCreated, want)
		}

		ctx := requestcontext.WithRequestID(s.ctx, "req-42")
		got, err := s.client.IssueCredential(ctx, models.IssueRequest{
			Owner:       testutil.Principals.Alice,
			Institution: "MIT",
			Type:        models.CredentialTypeTranscript,
			Title:       "BSc",
			Metadata:    models.Metadata{RecipientName: "Ada Lovelace"},
		})
		s.Require().NoError(err)
		s.Equal(want, *got)
	})

	s.Run("error body maps to domain code", func() {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, `institution "ETH Zurich" is not authorized to issue credentials`))
		}

		_, err := s.client.IssueCredential(s.ctx, models.IssueRequest{Owner: testutil.Principals.Alice})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Contains(err.Error(), "not authorized")
	})

	s.Run("status is used when body has no code", func() {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusConflict)
		}

		_, err := s.client.IssueCredential(s.ctx, models.IssueRequest{Owner: testutil.Principals.Alice})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *ClientSuite) TestVerifyCredential() {
	s.Run("404 is a negative result", func() {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "credential not found"))
		}

		res, err := s.client.VerifyCredential(s.ctx, models.NewCredentialID())
		s.Require().NoError(err)
		s.False(res.IsValid)
		s.Equal("not found", res.Message)
	})

	s.Run("decodes a verification result", func() {
		record := testutil.NewRecordBuilder().Build()
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			s.Equal("/v1/credentials/"+record.ID.String()+"/verification", r.URL.Path)
			httputil.WriteJSON(w, http.StatusOK, models.Verified(record))
		}

		res, err := s.client.VerifyCredential(s.ctx, record.ID)
		s.Require().NoError(err)
		s.True(res.IsValid)
		s.Equal(record.ID, res.Credential.ID)
	})
}

func (s *ClientSuite) TestGetCredentialsForOwner() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/v1/owners/"+testutil.Principals.Bob.String()+"/credentials", r.URL.Path)
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"credentials": nil})
	}

	list, err := s.client.GetCredentialsForOwner(s.ctx, testutil.Principals.Bob)
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *ClientSuite) TestSetInstitutionAuthorization() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPut, r.Method)
		s.Equal("/v1/institutions/Stanford University/authorization", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}

	s.NoError(s.client.SetInstitutionAuthorization(s.ctx, "Stanford University"))
}

func (s *ClientSuite) TestTimeout() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}
	client := New(Config{BaseURL: s.server.URL, Timeout: 20 * time.Millisecond})

	_, err := client.VerifyCredential(s.ctx, models.NewCredentialID())
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout), "got %v", err)
}

func (s *ClientSuite) TestCircuitBreaker() {
	var calls atomic.Int32
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}
	client := s.newClient(WithBreaker(circuit.New("test",
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(time.Hour),
	)))

	for range 2 {
		_, err := client.GetCredentialsForOwner(s.ctx, testutil.Principals.Alice)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	}

	_, err := client.GetCredentialsForOwner(s.ctx, testutil.Principals.Alice)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.Equal("credential service unavailable", err.Error())
	s.Equal(int32(2), calls.Load(), "open circuit must not reach the server")
}

func (s *ClientSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.client.VerifyCredential(ctx, models.NewCredentialID())
	s.True(errors.Is(err, context.Canceled), "got %v", err)
}
