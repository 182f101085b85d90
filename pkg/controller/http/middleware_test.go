package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	controller "github.com/safetylens/safetytracker/pkg/controller/http"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ctxlog.With(context.Background(), logger)

	var fromHandler *slog.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromHandler = ctxlog.From(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	h := middleware.RequestID(controller.LoggingMiddleware(ctx)(next))
	req := httptest.NewRequest(http.MethodGet, "/api/options?x=1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	gt.Equal(t, w.Code, http.StatusTeapot)
	gt.V(t, fromHandler).NotNil()

	out := buf.String()
	gt.S(t, out).Contains(`"msg":"HTTP request"`)
	gt.S(t, out).Contains(`"path":"/api/options"`)
	gt.S(t, out).Contains(`"status":418`)
	gt.S(t, out).Contains(`"request_id"`)
}

func TestCORS(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	h := controller.CORS(next)

	t.Run("preflight is answered directly", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/tabs/state", nil))
		gt.Equal(t, w.Code, http.StatusNoContent)
		gt.False(t, called)
		gt.S(t, w.Header().Get("Access-Control-Allow-Methods")).Contains("POST")
	})

	t.Run("other methods pass through", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tabs/state", nil))
		gt.Equal(t, w.Code, http.StatusOK)
		gt.True(t, called)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
	})
}
