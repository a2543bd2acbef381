package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"credhub/internal/credential/models"
	"credhub/internal/credential/ports"
	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/platform/httputil"
	"credhub/pkg/requestcontext"
)

// QRCodeSize is the edge length in pixels of generated QR codes.
const QRCodeSize = 256

// Handler wires credential endpoints to the configured credential backend.
type Handler struct {
	service       ports.CredentialService
	publicBaseURL string
	logger        *slog.Logger
}

// New constructs a credential handler. publicBaseURL prefixes the
// verification links encoded in QR codes.
func New(service ports.CredentialService, publicBaseURL string, logger *slog.Logger) *Handler {
	return &Handler{
		service:       service,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Register mounts credential endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/credentials", h.HandleIssue)
	r.Get("/v1/credentials/{id}/verification", h.HandleVerify)
	r.Get("/v1/credentials/{id}/qrcode", h.HandleQRCode)
	r.Get("/v1/owners/{principal}/credentials", h.HandleListByOwner)
	r.Put("/v1/institutions/{name}/authorization", h.HandleAuthorizeInstitution)
}

// HandleIssue handles POST /v1/credentials.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	body, ok := httputil.DecodeAndPrepare[models.IssueCredentialRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	req, err := body.ToIssueRequest()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.IssueCredential(ctx, req)
	if err != nil {
		h.logError(r, "failed to issue credential", err, "institution", req.Institution)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

// HandleVerify handles GET /v1/credentials/{id}/verification. An unknown id
// is answered with 200 and isValid=false.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseCredentialID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.VerifyCredential(r.Context(), id)
	if err != nil {
		h.logError(r, "failed to verify credential", err, "credential_id", id)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleQRCode renders a PNG QR code linking to the public verification
// page of a credential that verifies.
func (h *Handler) HandleQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseCredentialID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.VerifyCredential(r.Context(), id)
	if err != nil {
		h.logError(r, "failed to verify credential", err, "credential_id", id)
		httputil.WriteError(w, err)
		return
	}
	if !result.IsValid {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "credential "+result.Message))
		return
	}

	png, err := qrcode.Encode(h.VerificationURL(id), qrcode.Medium, QRCodeSize)
	if err != nil {
		h.logError(r, "failed to encode qr code", err, "credential_id", id)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render qr code"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// VerificationURL is the public link encoded in a credential's QR code.
func (h *Handler) VerificationURL(id models.CredentialID) string {
	return h.publicBaseURL + "/verify/" + id.String()
}

// HandleListByOwner handles GET /v1/owners/{principal}/credentials.
func (h *Handler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	owner, err := domain.ParsePrincipal(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.GetCredentialsForOwner(r.Context(), owner)
	if err != nil {
		h.logError(r, "failed to list credentials", err, "owner", owner)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.CredentialList{Credentials: records})
}

// HandleAuthorizeInstitution handles PUT /v1/institutions/{name}/authorization.
func (h *Handler) HandleAuthorizeInstitution(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	name = strings.TrimSpace(name)
	if err != nil || name == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "institution name is required"))
		return
	}

	if err := h.service.SetInstitutionAuthorization(r.Context(), name); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logError(r, "failed to authorize institution", err, "institution", name)
		}
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logError(r *http.Request, msg string, err error, attrs ...any) {
	ctx := r.Context()
	args := append([]any{"error", err, "request_id", requestcontext.RequestID(ctx)}, attrs...)
	h.logger.ErrorContext(ctx, msg, args...)
}
