package request

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"credhub/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	capture := func(header string) (ctxID, respID string) {
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxID = requestcontext.RequestID(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/v1/ingestions/template", nil)
		if header != "" {
			req.Header.Set("X-Request-ID", header)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return ctxID, w.Header().Get("X-Request-ID")
	}

	t.Run("generates UUID when no header provided", func(t *testing.T) {
		ctxID, respID := capture("")
		assert.Len(t, ctxID, 36)
		assert.Equal(t, ctxID, respID)
	})

	t.Run("reuses valid client-provided ID", func(t *testing.T) {
		ctxID, respID := capture("upload.batch_42")
		assert.Equal(t, "upload.batch_42", ctxID)
		assert.Equal(t, "upload.batch_42", respID)
	})

	t.Run("replaces unsafe or oversized IDs", func(t *testing.T) {
		for _, bad := range []string{"id\nforged=1", "id with spaces", strings.Repeat("a", MaxRequestIDLength+1)} {
			ctxID, _ := capture(bad)
			assert.NotEqual(t, bad, ctxID)
			assert.Len(t, ctxID, 36)
		}
	})
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("issuer exploded")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/credentials", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), "issuer exploded")
}

func TestLogger(t *testing.T) {
	t.Run("logs status and path", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))
		handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/ingestions", nil))

		assert.Contains(t, logs.String(), `"status":202`)
		assert.Contains(t, logs.String(), `"path":"/v1/ingestions"`)
		assert.Contains(t, logs.String(), `"client_ip":"192.0.2.0"`)
	})

	t.Run("skips healthy probes", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))
		handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Empty(t, logs.String())
	})
}
