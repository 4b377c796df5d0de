package anzen_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anzen"
	"github.com/dmitrymomot/anzen/binder"
	"github.com/dmitrymomot/anzen/pkg/async"
	"github.com/dmitrymomot/anzen/schema"
)

func ptr[T any](v T) *T { return &v }

type user struct {
	Name string
}

func apiKeySchema() schema.Schema {
	return schema.Object(schema.Dictionary{
		{Name: "name", Schema: schema.String()},
		{Name: "model", Schema: schema.String()},
		{Name: "apiKey", Schema: schema.String()},
	})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func presentSlots[A any](ctx *anzen.RouteContext[A], r *http.Request) (anzen.Response, error) {
	return anzen.Text(http.StatusOK, ctx.Present().String()), nil
}

func TestRouteHandlerMinimalContext(t *testing.T) {
	t.Parallel()

	var got *anzen.RouteContext[struct{}]
	h, err := anzen.NewRouteHandler(anzen.RouteOptions[struct{}]{Debug: ptr(false)},
		func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
			got = ctx
			return anzen.Empty(), nil
		})
	require.NoError(t, err)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api?x=1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, []string{"id", "url"}, got.Present().Names())
	assert.Equal(t, anzen.DefaultRouteID, got.ID)
	assert.Equal(t, "/api", got.URL.Path)
	assert.Nil(t, got.Segments)
	assert.Nil(t, got.SearchParams)
	assert.False(t, got.Has(anzen.SlotAuth))
}

func TestRouteHandlerConstruction(t *testing.T) {
	t.Parallel()

	t.Run("body and form data", func(t *testing.T) {
		t.Parallel()

		opts := anzen.RouteOptions[struct{}]{
			Body:     apiKeySchema(),
			FormData: schema.Dictionary{{Name: "file", Schema: schema.File(1 << 20)}},
		}
		_, err := anzen.NewRouteHandler(opts, presentSlots[struct{}])
		assert.ErrorIs(t, err, anzen.ErrBodyAndFormData)
		assert.Panics(t, func() { anzen.MustRouteHandler(opts, presentSlots[struct{}]) })
	})

	t.Run("nil handler", func(t *testing.T) {
		t.Parallel()

		_, err := anzen.NewRouteHandler[struct{}](anzen.RouteOptions[struct{}]{}, nil)
		assert.ErrorIs(t, err, anzen.ErrNilHandler)
	})

	t.Run("custom id", func(t *testing.T) {
		t.Parallel()

		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{ID: "/api/races"}, presentSlots[struct{}])
		assert.Equal(t, "/api/races", h.ID())
	})
}

func TestRouteHandlerBody(t *testing.T) {
	t.Parallel()

	t.Run("GET is rejected before reading", func(t *testing.T) {
		t.Parallel()

		called := false
		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug: ptr(false),
			Body: schema.Func(func(any) schema.Result {
				called = true
				return schema.Ok(nil)
			}),
		}, presentSlots[struct{}])

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/races", strings.NewReader(`{"name":"x"}`)))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "Method not allowed", rec.Body.String())
		assert.Equal(t, "POST, PUT, PATCH", rec.Header().Get("Allow"))
		assert.False(t, called)
	})

	t.Run("every missing field is reported", func(t *testing.T) {
		t.Parallel()

		var issues []schema.Issue
		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug: ptr(false),
			Body:  apiKeySchema(),
			OnBodyValidationError: func(ctx context.Context, got []schema.Issue) anzen.Response {
				issues = got
				return nil
			},
		}, presentSlots[struct{}])

		req := httptest.NewRequest(http.MethodPost, "/api/keys", strings.NewReader(`{"unknown":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := serve(h, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid body", rec.Body.String())
		require.Len(t, issues, 3)
		assert.Equal(t, []any{"name"}, issues[0].Path)
		assert.Equal(t, []any{"model"}, issues[1].Path)
		assert.Equal(t, []any{"apiKey"}, issues[2].Path)
	})

	t.Run("custom validation response", func(t *testing.T) {
		t.Parallel()

		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug: ptr(false),
			Body:  apiKeySchema(),
			OnBodyValidationError: func(ctx context.Context, issues []schema.Issue) anzen.Response {
				return anzen.JSONIssues("invalid_body", issues)
			},
		}, presentSlots[struct{}])

		rec := serve(h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"invalid_body"`)
		assert.Contains(t, rec.Body.String(), `"path":["apiKey"]`)
	})

	t.Run("valid body and original request stays readable", func(t *testing.T) {
		t.Parallel()

		const payload = `{"name":"Monaco","location":"Monte Carlo","extra":true}`
		var original string
		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug: ptr(false),
			Body: schema.Object(schema.Dictionary{
				{Name: "name", Schema: schema.String()},
				{Name: "location", Schema: schema.String()},
			}),
		}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
			data, err := io.ReadAll(r.Body)
			if err != nil {
				return nil, err
			}
			original = string(data)
			body, ok := anzen.BodyAs[schema.Values](ctx)
			if !ok {
				return nil, errors.New("body missing")
			}
			return anzen.JSON(map[string]any{"race": body}, anzen.WithStatus(http.StatusCreated)), nil
		})

		rec := serve(h, httptest.NewRequest(http.MethodPost, "/api/races", strings.NewReader(payload)))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"race":{"name":"Monaco","location":"Monte Carlo"}}`, rec.Body.String())
		assert.Equal(t, payload, original)
	})

	t.Run("malformed json goes to OnError", func(t *testing.T) {
		t.Parallel()

		var got error
		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug: ptr(false),
			Body:  apiKeySchema(),
			OnError: func(ctx context.Context, err error) anzen.Response {
				got = err
				return nil
			},
		}, presentSlots[struct{}])

		rec := serve(h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`)))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", rec.Body.String())
		assert.ErrorIs(t, got, binder.ErrInvalidJSON)
	})

	t.Run("pending schema panics", func(t *testing.T) {
		t.Parallel()

		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug: ptr(false),
			Body: schema.AsyncFunc(func(any) async.Value[schema.Result] {
				v, _ := async.Promise[schema.Result]()
				return v
			}),
		}, presentSlots[struct{}])

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		assert.PanicsWithError(t, (&schema.SyncViolationError{}).Error(), func() { h.Handle(req) })
	})
}

func TestRouteHandlerFormData(t *testing.T) {
	t.Parallel()

	h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		Debug: ptr(false),
		FormData: schema.Dictionary{
			{Name: "name", Schema: schema.String()},
			{Name: "tags", Schema: schema.Array(schema.String())},
		},
	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
		return anzen.JSON(ctx.FormData), nil
	})

	t.Run("urlencoded", func(t *testing.T) {
		t.Parallel()

		form := url.Values{"name": {"Monaco"}, "tags": {"street", "night"}, "ignored": {"x"}}
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := serve(h, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"name":"Monaco","tags":["street","night"]}`, rec.Body.String())
	})

	t.Run("unsupported content type", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		rec := serve(h, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Equal(t, "Unsupported media type", rec.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()

		rec := serve(h, httptest.NewRequest(http.MethodDelete, "/upload", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("invalid form data", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPut, "/upload", strings.NewReader("tags=a"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := serve(h, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid form data", rec.Body.String())
	})
}

func multipartUpload(t *testing.T, method string, fields map[string]string, file string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	part, err := w.CreateFormFile(file, file+".bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestRouteHandlerMultipart(t *testing.T) {
	t.Parallel()

	newHandler := func(readErr *error) *anzen.RouteHandler[struct{}] {
		return anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug: ptr(false),
			FormData: schema.Dictionary{
				{Name: "title", Schema: schema.String()},
				{Name: "doc", Schema: schema.File(1 << 10)},
			},
			OnFormDataValidationError: func(ctx context.Context, issues []schema.Issue) anzen.Response {
				return anzen.JSONIssues("invalid_form_data", issues)
			},
			OnError: func(ctx context.Context, err error) anzen.Response {
				*readErr = err
				return anzen.Text(http.StatusInternalServerError, "form unreadable")
			},
		}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
			doc, ok := schema.Get[*multipart.FileHeader](ctx.FormData, "doc")
			if !ok {
				return nil, errors.New("doc missing")
			}
			return anzen.JSON(map[string]any{
				"title":    ctx.FormData.String("title"),
				"filename": doc.Filename,
				"size":     doc.Size,
			}), nil
		})
	}

	t.Run("file upload", func(t *testing.T) {
		t.Parallel()

		var readErr error
		req := multipartUpload(t, http.MethodPost, map[string]string{"title": "Report"}, "doc", []byte("lap times"))

		rec := serve(newHandler(&readErr), req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"title":"Report","filename":"doc.bin","size":9}`, rec.Body.String())
		assert.NoError(t, readErr)
	})

	t.Run("file too large", func(t *testing.T) {
		t.Parallel()

		var readErr error
		req := multipartUpload(t, http.MethodPost, map[string]string{"title": "Report"}, "doc", bytes.Repeat([]byte("x"), 2<<10))

		rec := serve(newHandler(&readErr), req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation.file_size")
		assert.NoError(t, readErr)
	})

	t.Run("malformed multipart body", func(t *testing.T) {
		t.Parallel()

		var readErr error
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("not multipart"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

		rec := serve(newHandler(&readErr), req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "form unreadable", rec.Body.String())
		assert.ErrorIs(t, readErr, binder.ErrInvalidForm)
	})

	t.Run("malformed multipart body without hooks", func(t *testing.T) {
		t.Parallel()

		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug:    ptr(false),
			FormData: schema.Dictionary{{Name: "doc", Schema: schema.File(0)}},
		}, presentSlots[struct{}])
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("not multipart"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

		rec := serve(h, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", rec.Body.String())
	})
}

// Not parallel: it points TMPDIR at a private directory.
func TestRouteHandlerMultipartTempFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	var spooled int
	h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		Debug:     ptr(false),
		MaxMemory: 1,
		FormData:  schema.Dictionary{{Name: "doc", Schema: schema.File(0)}},
	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
		doc, _ := schema.Get[*multipart.FileHeader](ctx.FormData, "doc")
		f, err := doc.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		n, err := io.Copy(io.Discard, f)
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		spooled = len(entries)
		return anzen.Text(http.StatusOK, strconv.FormatInt(n, 10)), nil
	})

	rec := serve(h, multipartUpload(t, http.MethodPost, nil, "doc", bytes.Repeat([]byte("x"), 64<<10)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "65536", rec.Body.String())
	assert.Positive(t, spooled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type trackingBody struct {
	r     io.Reader
	reads int
}

func (b *trackingBody) Read(p []byte) (int, error) {
	b.reads++
	return b.r.Read(p)
}

func TestRouteHandlerMethodCheckDoesNotReadBody(t *testing.T) {
	t.Parallel()

	authorized := false
	h := anzen.MustRouteHandler(anzen.RouteOptions[user]{
		Debug: ptr(false),
		Authorize: func(ctx context.Context, p anzen.AuthorizeParams) (anzen.Decision[user], error) {
			authorized = true
			return anzen.Allow(user{Name: "John Doe"}), nil
		},
		Body: apiKeySchema(),
	}, presentSlots[user])

	body := &trackingBody{r: strings.NewReader(strings.Repeat("x", 1<<20))}
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", body))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST, PUT, PATCH", rec.Header().Get("Allow"))
	assert.True(t, authorized)
	assert.Zero(t, body.reads)
}

func TestRouteHandlerSegments(t *testing.T) {
	t.Parallel()

	h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		Debug:    ptr(false),
		Segments: schema.Dictionary{{Name: "raceId", Schema: schema.Int()}},
	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
		return anzen.JSON(map[string]any{"segments": ctx.Segments}), nil
	})

	router := chi.NewRouter()
	router.Get("/api/races/{raceId}", h.ServeHTTP)
	router.Get("/api/races", h.ServeHTTP)

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{name: "valid", target: "/api/races/42", status: http.StatusOK, body: `{"segments":{"raceId":42}}`},
		{name: "invalid", target: "/api/races/abc", status: http.StatusBadRequest, body: "Invalid segments"},
		{name: "absent", target: "/api/races", status: http.StatusBadRequest, body: "No segments provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(router, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, tt.body, rec.Body.String())
			} else {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}

	t.Run("custom source and hook", func(t *testing.T) {
		t.Parallel()

		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug:          ptr(false),
			Segments:       schema.Dictionary{{Name: "raceId", Schema: schema.String()}},
			SegmentsSource: binder.Path(func(r *http.Request, name string) string { return r.Header.Get("X-" + name) }, "raceId"),
			OnNoSegments: func(ctx context.Context) anzen.Response {
				return anzen.Text(http.StatusNotFound, "race not found")
			},
		}, presentSlots[struct{}])

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-raceId", "monaco")
		rec = serve(h, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "{id,url,segments}", rec.Body.String())
	})
}

func TestRouteHandlerSearchParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dict   schema.Dictionary
		target string
		want   string
	}{
		{
			name:   "repeated key becomes a list",
			dict:   schema.Dictionary{{Name: "query", Schema: schema.Array(schema.String())}},
			target: "/search?query=a&query=b",
			want:   `{"query":["a","b"]}`,
		},
		{
			name:   "single key stays a string",
			dict:   schema.Dictionary{{Name: "query", Schema: schema.String()}},
			target: "/search?query=a",
			want:   `{"query":"a"}`,
		},
		{
			name: "numeric coercion and allow-list",
			dict: schema.Dictionary{
				{Name: "id", Schema: schema.String()},
				{Name: "page", Schema: schema.Numeric()},
			},
			target: "/search?id=x&page=5&other=1",
			want:   `{"id":"x","page":5}`,
		},
		{
			name:   "empty query with optional field",
			dict:   schema.Dictionary{{Name: "page", Schema: schema.Optional(schema.Int())}},
			target: "/search",
			want:   `{"page":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
				Debug:        ptr(false),
				SearchParams: tt.dict,
			}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
				return anzen.JSON(ctx.SearchParams), nil
			})

			rec := serve(h, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug:        ptr(false),
			SearchParams: schema.Dictionary{{Name: "query", Schema: schema.String()}},
		}, presentSlots[struct{}])

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/search", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid search params", rec.Body.String())
	})
}

func TestRouteHandlerAuthorize(t *testing.T) {
	t.Parallel()

	authorize := func(ctx context.Context, p anzen.AuthorizeParams) (anzen.Decision[user], error) {
		body, err := io.ReadAll(p.Request.Body)
		if err != nil {
			return anzen.Decision[user]{}, err
		}
		switch p.Request.Header.Get("Authorization") {
		case "":
			return anzen.Deny[user](nil), nil
		case "blocked":
			return anzen.Deny[user](anzen.JSONError(&anzen.ErrorDetail{Code: "forbidden"}, anzen.WithStatus(http.StatusForbidden))), nil
		case "broken":
			return anzen.Decision[user]{}, errors.New("auth backend down")
		}
		return anzen.Allow(user{Name: "John Doe " + string(body)}), nil
	}

	h := anzen.MustRouteHandler(anzen.RouteOptions[user]{
		Debug:     ptr(false),
		Authorize: authorize,
		Segments:  schema.Dictionary{{Name: "id", Schema: schema.String()}},
	}, func(ctx *anzen.RouteContext[user], r *http.Request) (anzen.Response, error) {
		body, _ := io.ReadAll(r.Body)
		return anzen.Text(http.StatusOK, "Hello "+ctx.Auth.Name+" / "+string(body)+" "+ctx.Present().String()), nil
	})

	tests := []struct {
		name   string
		auth   string
		status int
		body   string
	}{
		{name: "allowed without segments", auth: "token", status: http.StatusBadRequest, body: "No segments provided"},
		{name: "default deny", auth: "", status: http.StatusUnauthorized, body: "Unauthorized"},
		{name: "custom deny", auth: "blocked", status: http.StatusForbidden, body: `{"error":{"code":"forbidden"}}` + "\n"},
		{name: "error", auth: "broken", status: http.StatusInternalServerError, body: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Segments are configured but absent: authorize must run first.
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := serve(h, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}

	t.Run("allowed with segments", func(t *testing.T) {
		t.Parallel()

		router := chi.NewRouter()
		router.Post("/{id}", h.ServeHTTP)
		req := httptest.NewRequest(http.MethodPost, "/vercel", strings.NewReader("x"))
		req.Header.Set("Authorization", "token")

		rec := serve(router, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Hello John Doe x / x {id,url,auth,segments}", rec.Body.String())
	})
}

func TestRouteHandlerErrors(t *testing.T) {
	t.Parallel()

	handlerErr := errors.New("database unavailable")

	tests := []struct {
		name string
		fn   anzen.HandlerFunc[struct{}]
		want error
	}{
		{
			name: "handler error",
			fn: func(*anzen.RouteContext[struct{}], *http.Request) (anzen.Response, error) {
				return nil, handlerErr
			},
			want: handlerErr,
		},
		{
			name: "nil response",
			fn: func(*anzen.RouteContext[struct{}], *http.Request) (anzen.Response, error) {
				return nil, nil
			},
			want: anzen.ErrNilResponse,
		},
		{
			name: "panic",
			fn: func(*anzen.RouteContext[struct{}], *http.Request) (anzen.Response, error) {
				panic("boom")
			},
			want: anzen.ErrHandlerPanic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			var got error
			h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
				ID:     "/api/errors",
				Debug:  ptr(true),
				Logger: slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
				OnError: func(ctx context.Context, err error) anzen.Response {
					got = err
					return anzen.JSONError(err)
				},
			}, tt.fn)

			rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"internal_error"`)
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, logs.String(), "level=ERROR")
			assert.Contains(t, logs.String(), "/api/errors")
		})
	}

	t.Run("silenced logger", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
			Debug:  ptr(false),
			Logger: slog.New(slog.NewTextHandler(&logs, nil)),
		}, tests[0].fn)

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, logs.String())
	})
}

func TestRouteHandlerStageOrder(t *testing.T) {
	t.Parallel()

	h := anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		Debug:        ptr(false),
		SearchParams: schema.Dictionary{{Name: "q", Schema: schema.String()}},
		Body:         apiKeySchema(),
	}, presentSlots[struct{}])

	// Invalid search params win over a wrong method and an invalid body.
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid search params", rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/?q=x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
