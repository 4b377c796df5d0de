package anzen_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anzen"
	"github.com/dmitrymomot/anzen/schema"
)

func renderResponse(t *testing.T, resp anzen.Response, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if req == nil {
		req = httptest.NewRequest(http.MethodGet, "/", nil)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, req))
	return rec
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := renderResponse(t, anzen.JSON(map[string]string{"message": "Hey"}), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Hey"}`, rec.Body.String())

	rec = renderResponse(t, anzen.JSON(nil, anzen.WithStatus(http.StatusAccepted), anzen.WithHeader("X-Trace", "1")), nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Trace"))
	assert.Equal(t, "null\n", rec.Body.String())
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		resp   anzen.Response
		status int
		body   string
	}{
		{
			name:   "plain error",
			resp:   anzen.JSONError(errors.New("boom")),
			status: http.StatusInternalServerError,
			body:   `{"error":{"code":"internal_error","message":"boom"}}`,
		},
		{
			name:   "detail with status",
			resp:   anzen.JSONError(&anzen.ErrorDetail{Code: "forbidden", Message: "No access"}, anzen.WithStatus(http.StatusForbidden)),
			status: http.StatusForbidden,
			body:   `{"error":{"code":"forbidden","message":"No access"}}`,
		},
		{
			name:   "unknown value",
			resp:   anzen.JSONError(42),
			status: http.StatusInternalServerError,
			body:   `{"error":{"code":"internal_error","message":"Internal Server Error"}}`,
		},
		{
			name: "issues",
			resp: anzen.JSONIssues("invalid_segments", []schema.Issue{
				{Message: "Required", Path: []any{"raceId"}},
			}),
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"invalid_segments","message":"Validation failed","issues":[{"message":"Required","path":["raceId"]}]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := renderResponse(t, tt.resp, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestTextAndEmpty(t *testing.T) {
	t.Parallel()

	rec := renderResponse(t, anzen.Text(http.StatusTeapot, "short and stout"), nil)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "short and stout", rec.Body.String())

	rec = renderResponse(t, anzen.Empty(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = renderResponse(t, anzen.EmptyWithStatus(http.StatusAccepted), nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestTempl(t *testing.T) {
	t.Parallel()

	t.Run("html", func(t *testing.T) {
		t.Parallel()

		rec := renderResponse(t, anzen.Templ(text("<p>hi</p>")), nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<p>hi</p>", rec.Body.String())
	})

	t.Run("datastar", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "text/event-stream")
		assert.True(t, anzen.IsDataStar(req))

		rec := renderResponse(t, anzen.Templ(text("<p id=\"x\">hi</p>"), anzen.WithTarget("#x")), req)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
		assert.Contains(t, rec.Body.String(), "hi")
	})

	t.Run("redirect", func(t *testing.T) {
		t.Parallel()

		rec := renderResponse(t, anzen.RedirectTo("/", http.StatusSeeOther), nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}
