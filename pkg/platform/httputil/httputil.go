package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "credhub/pkg/domain-errors"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error            string   `json:"error"`
	ErrorDescription string   `json:"error_description,omitempty"`
	Details          []string `json:"details,omitempty"`
}

// Detailer is implemented by errors that carry a list of user-facing
// details, such as every row rejected by batch validation.
type Detailer interface {
	Details() []string
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		resp := ErrorResponse{
			Error:            string(domainErr.Code),
			ErrorDescription: domainErr.Message,
		}
		var detailer Detailer
		if errors.As(err, &detailer) {
			resp.Details = detailer.Details()
		}
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), resp)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: string(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusToDomainCode is the inverse mapping used by HTTP clients when a
// response body carries no recognizable error code.
func HTTPStatusToDomainCode(status int) dErrors.Code {
	switch status {
	case http.StatusNotFound:
		return dErrors.CodeNotFound
	case http.StatusBadRequest:
		return dErrors.CodeBadRequest
	case http.StatusUnprocessableEntity:
		return dErrors.CodeValidation
	case http.StatusConflict:
		return dErrors.CodeConflict
	case http.StatusUnauthorized:
		return dErrors.CodeUnauthorized
	case http.StatusForbidden:
		return dErrors.CodeForbidden
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return dErrors.CodeTimeout
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return dErrors.CodeUnavailable
	default:
		return dErrors.CodeInternal
	}
}
