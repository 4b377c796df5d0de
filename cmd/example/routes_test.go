package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anzen/pkg/environment"
	"github.com/dmitrymomot/anzen/pkg/logger"
)

func TestRouter(t *testing.T) {
	t.Parallel()

	router := newRouter(environment.Development, logger.Discard())

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		header     map[string]string
		wantStatus int
		wantBody   []string
	}{
		{name: "hello", method: http.MethodGet, target: "/api/", wantStatus: http.StatusOK, wantBody: []string{"Hey"}},
		{name: "authorize denied", method: http.MethodGet, target: "/api/authorize", wantStatus: http.StatusUnauthorized, wantBody: []string{`"code":"unauthorized"`}},
		{
			name: "authorize allowed", method: http.MethodGet, target: "/api/authorize",
			header:     map[string]string{"Authorization": "Bearer demo"},
			wantStatus: http.StatusOK, wantBody: []string{"Hello John Doe"},
		},
		{name: "race segments", method: http.MethodGet, target: "/api/races/suzuka", wantStatus: http.StatusOK, wantBody: []string{`"raceId":"suzuka"`}},
		{name: "race segments invalid", method: http.MethodGet, target: "/api/races/x", wantStatus: http.StatusBadRequest, wantBody: []string{"invalid_segments"}},
		{name: "search missing query", method: http.MethodGet, target: "/api/search", wantStatus: http.StatusBadRequest, wantBody: []string{"invalid_search_params"}},
		{name: "search", method: http.MethodGet, target: "/api/search?query=monza&page=2", wantStatus: http.StatusOK, wantBody: []string{`"query":"monza"`, `"page":2`}},
		{
			name: "create race", method: http.MethodPost, target: "/api/races",
			body:       `{"name":"Suzuka","location":"Japan"}`,
			header:     map[string]string{"Content-Type": "application/json"},
			wantStatus: http.StatusCreated, wantBody: []string{`"name":"Suzuka"`},
		},
		{
			name: "create race invalid", method: http.MethodPost, target: "/api/races",
			body:       `{"name":" ","location":""}`,
			header:     map[string]string{"Content-Type": "application/json"},
			wantStatus: http.StatusBadRequest, wantBody: []string{"invalid_body", `"path":["name"]`, `"path":["location"]`},
		},
		{name: "page", method: http.MethodGet, target: "/", wantStatus: http.StatusOK, wantBody: []string{"Validated handlers and components"}},
		{
			name: "blob in layout", method: http.MethodGet, target: "/playground/blob/vercel?q=hi",
			wantStatus: http.StatusOK, wantBody: []string{"layout:John Doe", "page:John Doe", "vercel", "hi"},
		},
		{name: "blob not found", method: http.MethodGet, target: "/playground/blob/other", wantStatus: http.StatusNotFound},
		{
			name: "parallel slots", method: http.MethodGet, target: "/playground/parallel",
			wantStatus: http.StatusOK, wantBody: []string{"Analytics", "4 members online"},
		},
		{name: "unknown path redirects home", method: http.MethodGet, target: "/missing", wantStatus: http.StatusTemporaryRedirect},
		{name: "liveness", method: http.MethodGet, target: "/health/live", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			for _, want := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestRaceValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, race{Name: "Monza", Location: "Italy"}.Validate())

	err := race{Name: strings.Repeat("x", 65)}.Validate()
	require.Error(t, err)
	data, jerr := json.Marshal(err)
	require.NoError(t, jerr)
	assert.Contains(t, string(data), "validation.max_length")
	assert.Contains(t, string(data), "validation.required")
}
