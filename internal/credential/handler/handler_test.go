package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"credhub/internal/credential/models"
	"credhub/internal/credential/ports/mocks"
	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/platform/httputil"
	"credhub/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockCredentialService
	handler *Handler
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockCredentialService(s.ctrl)
	s.handler = New(s.service, "https://credhub.example/", slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	s.handler.Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(method, path, reader))
	return w
}

func (s *HandlerSuite) assertStatusAndError(w *httptest.ResponseRecorder, status int, code dErrors.Code) {
	s.Equal(status, w.Code)
	var resp httputil.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(string(code), resp.Error)
}

func (s *HandlerSuite) TestHandleIssue() {
	s.Run("201 with the issued record", func() {
		record := testutil.NewRecordBuilder().Build()
		s.service.EXPECT().IssueCredential(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, req models.IssueRequest) (*models.CredentialRecord, error) {
				s.Equal(testutil.Principals.Alice, req.Owner)
				s.Equal(models.CredentialTypeBadge, req.Type)
				s.Equal("Ada Lovelace", req.Metadata.RecipientName)
				return &record, nil
			})

		w := s.do(http.MethodPost, "/v1/credentials", `{
			"ownerPrincipal": "`+testutil.Principals.Alice.String()+`",
			"institution": "MIT",
			"credentialType": "Badge",
			"title": "Go",
			"metadata": {"recipientName": "Ada Lovelace"}
		}`)

		s.Equal(http.StatusCreated, w.Code)
		var got models.CredentialRecord
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
		s.Equal(record.ID, got.ID)
	})

	s.Run("malformed JSON", func() {
		w := s.do(http.MethodPost, "/v1/credentials", `{"ownerPrincipal":`)
		s.assertStatusAndError(w, http.StatusBadRequest, dErrors.CodeBadRequest)
	})

	s.Run("missing title", func() {
		w := s.do(http.MethodPost, "/v1/credentials", `{"ownerPrincipal":"2vxsx-fae","institution":"MIT","credentialType":"badge"}`)
		s.assertStatusAndError(w, http.StatusUnprocessableEntity, dErrors.CodeValidation)
	})

	s.Run("invalid principal", func() {
		w := s.do(http.MethodPost, "/v1/credentials", `{"ownerPrincipal":"bogus","institution":"MIT","credentialType":"badge","title":"Go"}`)
		s.assertStatusAndError(w, http.StatusBadRequest, dErrors.CodeInvalidInput)
	})

	s.Run("backend rejection", func() {
		s.service.EXPECT().IssueCredential(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "institution is not authorized"))

		w := s.do(http.MethodPost, "/v1/credentials", `{"ownerPrincipal":"2vxsx-fae","institution":"ETH Zurich","credentialType":"badge","title":"Go"}`)
		s.assertStatusAndError(w, http.StatusForbidden, dErrors.CodeForbidden)
	})
}

func (s *HandlerSuite) TestHandleVerify() {
	id := models.NewCredentialID()

	s.Run("negative result is 200", func() {
		s.service.EXPECT().VerifyCredential(gomock.Any(), id).Return(models.NotFound(), nil)

		w := s.do(http.MethodGet, "/v1/credentials/"+id.String()+"/verification", "")
		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"isValid":false,"message":"not found"}`, w.Body.String())
	})

	s.Run("malformed id", func() {
		w := s.do(http.MethodGet, "/v1/credentials/abc/verification", "")
		s.assertStatusAndError(w, http.StatusBadRequest, dErrors.CodeInvalidInput)
	})

	s.Run("backend failure", func() {
		s.service.EXPECT().VerifyCredential(gomock.Any(), id).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "credential service unavailable"))

		w := s.do(http.MethodGet, "/v1/credentials/"+id.String()+"/verification", "")
		s.assertStatusAndError(w, http.StatusServiceUnavailable, dErrors.CodeUnavailable)
	})
}

func (s *HandlerSuite) TestHandleQRCode() {
	record := testutil.NewRecordBuilder().Build()

	s.Run("png for a verified credential", func() {
		s.service.EXPECT().VerifyCredential(gomock.Any(), record.ID).Return(models.Verified(record), nil)

		w := s.do(http.MethodGet, "/v1/credentials/"+record.ID.String()+"/qrcode", "")
		s.Equal(http.StatusOK, w.Code)
		s.Equal("image/png", w.Header().Get("Content-Type"))
		img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
		s.Require().NoError(err)
		s.Equal(QRCodeSize, img.Bounds().Dx())
	})

	s.Run("404 for an unknown credential", func() {
		s.service.EXPECT().VerifyCredential(gomock.Any(), record.ID).Return(models.NotFound(), nil)

		w := s.do(http.MethodGet, "/v1/credentials/"+record.ID.String()+"/qrcode", "")
		s.assertStatusAndError(w, http.StatusNotFound, dErrors.CodeNotFound)
	})

	s.Equal("https://credhub.example/verify/"+record.ID.String(), s.handler.VerificationURL(record.ID))
}

func (s *HandlerSuite) TestHandleListByOwner() {
	s.Run("empty list is an empty array", func() {
		s.service.EXPECT().GetCredentialsForOwner(gomock.Any(), testutil.Principals.Bob).
			Return([]models.CredentialRecord{}, nil)

		w := s.do(http.MethodGet, "/v1/owners/"+testutil.Principals.Bob.String()+"/credentials", "")
		s.Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"credentials":[]}`, w.Body.String())
	})

	s.Run("invalid principal", func() {
		w := s.do(http.MethodGet, "/v1/owners/NOT-VALID/credentials", "")
		s.assertStatusAndError(w, http.StatusBadRequest, dErrors.CodeInvalidInput)
	})

	s.Run("unexpected failure hides details", func() {
		s.service.EXPECT().GetCredentialsForOwner(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		w := s.do(http.MethodGet, "/v1/owners/"+testutil.Principals.Alice.String()+"/credentials", "")
		s.assertStatusAndError(w, http.StatusInternalServerError, dErrors.CodeInternal)
	})
}

func (s *HandlerSuite) TestHandleAuthorizeInstitution() {
	s.Run("204 for a known institution", func() {
		s.service.EXPECT().SetInstitutionAuthorization(gomock.Any(), "Stanford University").Return(nil)

		w := s.do(http.MethodPut, "/v1/institutions/Stanford%20University/authorization", "")
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("404 with suggestion for an unknown institution", func() {
		s.service.EXPECT().SetInstitutionAuthorization(gomock.Any(), "Stanfrd University").
			Return(dErrors.New(dErrors.CodeNotFound, `institution "Stanfrd University" is not known; did you mean "Stanford University"?`))

		w := s.do(http.MethodPut, "/v1/institutions/Stanfrd%20University/authorization", "")
		s.assertStatusAndError(w, http.StatusNotFound, dErrors.CodeNotFound)
		s.Contains(w.Body.String(), "did you mean")
	})
}
