package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/safetylens/safetytracker/pkg/controller/http"
	"github.com/safetylens/safetytracker/pkg/domain/model"
)

func serveFrontend(t *testing.T, dir, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	h := controller.NewFrontendHandler(context.Background(), http.Dir(dir))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestFrontendHandler_Assets(t *testing.T) {
	testCases := []struct {
		path        string
		contentType string
		body        string
	}{
		{"/static/app.js", "application/javascript; charset=utf-8", "console.log"},
		{"/static/style.css", "text/css; charset=utf-8", "body"},
		{"/static/data.json", "application/json; charset=utf-8", "{"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			w := serveFrontend(t, "testdata/spa", http.MethodGet, tc.path)
			gt.Equal(t, w.Code, http.StatusOK)
			gt.Equal(t, w.Header().Get("Content-Type"), tc.contentType)
			gt.Equal(t, w.Header().Get("Cache-Control"), "public, max-age=3600")
			gt.S(t, w.Body.String()).Contains(tc.body)
		})
	}

	t.Run("missing asset is not the index page", func(t *testing.T) {
		w := serveFrontend(t, "testdata/spa", http.MethodGet, "/static/favicon.ico")
		gt.Equal(t, w.Code, http.StatusNotFound)
	})
}

func TestFrontendHandler_Index(t *testing.T) {
	for _, target := range []string{"/", "/index.html", "/static", "/state/CA", "/metric/deep/route", "/../../etc"} {
		t.Run(target, func(t *testing.T) {
			w := serveFrontend(t, "testdata/spa", http.MethodGet, target)
			gt.Equal(t, w.Code, http.StatusOK)
			gt.Equal(t, w.Header().Get("Content-Type"), "text/html; charset=utf-8")
			gt.Equal(t, w.Header().Get("Cache-Control"), "no-cache")
			gt.S(t, w.Body.String()).Contains(`<div id="root">`)
		})
	}
}

func TestFrontendHandler_Methods(t *testing.T) {
	t.Run("head has headers only", func(t *testing.T) {
		w := serveFrontend(t, "testdata/spa", http.MethodHead, "/static/app.js")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "application/javascript; charset=utf-8")
		gt.Equal(t, w.Body.Len(), 0)
	})

	t.Run("post is rejected", func(t *testing.T) {
		w := serveFrontend(t, "testdata/spa", http.MethodPost, "/state/CA")
		gt.Equal(t, w.Code, http.StatusMethodNotAllowed)
		gt.Equal(t, w.Header().Get("Allow"), "GET, HEAD")
	})
}

func TestFrontendHandler_WithoutIndex(t *testing.T) {
	w := serveFrontend(t, "testdata/empty", http.MethodGet, "/")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains("<title>" + model.DashboardTitle + "</title>")
	gt.S(t, w.Body.String()).Contains("not bundled")
}
