package main

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/anzen"
	"github.com/dmitrymomot/anzen/pkg/environment"
	"github.com/dmitrymomot/anzen/pkg/httpserver"
	"github.com/dmitrymomot/anzen/pkg/requestid"
	"github.com/dmitrymomot/anzen/schema"
)

type session struct {
	User string `json:"user"`
}

type race struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (r race) Validate() error {
	issues := append(
		schema.Check("name", r.Name, schema.NotBlank(), schema.MaxLen(64)),
		schema.Check("location", r.Location, schema.NotBlank())...,
	)
	if len(issues) > 0 {
		return issues
	}
	return nil
}

func newRouter(env environment.Environment, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, environment.Middleware(env))

	r.Get("/health/live", httpserver.HealthCheckHandler(log))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, func(context.Context) error { return nil }))

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/", helloHandler(log))
		r.Method(http.MethodGet, "/authorize", authorizeHandler(log))
		r.Method(http.MethodGet, "/search", searchHandler(log))
		r.Method(http.MethodPost, "/races", createRaceHandler(log))
		r.Method(http.MethodGet, "/races/{raceId}", raceHandler(log))
		r.Method(http.MethodGet, "/races/{raceId}/card", raceCardHandler(log))
		r.Method(http.MethodPost, "/upload", uploadHandler(log))
	})

	r.Get("/", anzen.ServePage(homePage(log)).ServeHTTP)
	r.Get("/playground/blob/{id}", anzen.ServeLayout(blobLayout(log), blobPage(log).View(), nil).ServeHTTP)
	r.Get("/playground/parallel", anzen.ServeLayout(parallelLayout(log), homePage(log).View(), map[string]anzen.View{
		"analytics": staticView(card("Analytics", "1,024 visits today")),
		"team":      staticView(card("Team", "4 members online")),
	}).ServeHTTP)
	r.NotFound(anzen.ServePage(notFoundPage(log)).ServeHTTP)

	return r
}

func helloHandler(log *slog.Logger) http.Handler {
	return anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{ID: "/api", Logger: log},
		func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
			return anzen.JSON(map[string]string{"message": "Hey 👋🏻"}), nil
		})
}

func authorizeHandler(log *slog.Logger) http.Handler {
	return anzen.MustRouteHandler(anzen.RouteOptions[session]{
		ID:     "/api/authorize",
		Logger: log,
		Authorize: func(ctx context.Context, p anzen.AuthorizeParams) (anzen.Decision[session], error) {
			if p.Request.Header.Get("Authorization") != "Bearer demo" {
				return anzen.Deny[session](anzen.JSONError(&anzen.ErrorDetail{
					Code:    "unauthorized",
					Message: "Send 'Authorization: Bearer demo'",
				}, anzen.WithStatus(http.StatusUnauthorized))), nil
			}
			return anzen.Allow(session{User: "John Doe"}), nil
		},
	}, func(ctx *anzen.RouteContext[session], r *http.Request) (anzen.Response, error) {
		return anzen.JSON(map[string]string{"message": "Hello " + ctx.Auth.User}), nil
	})
}

func searchHandler(log *slog.Logger) http.Handler {
	return anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		ID:     "/api/search",
		Logger: log,
		SearchParams: schema.Dictionary{
			{Name: "query", Schema: schema.Refine(schema.String(), schema.MinLen(1))},
			{Name: "page", Schema: schema.Optional(schema.Int())},
		},
		OnSearchParamsValidationError: func(ctx context.Context, issues []schema.Issue) anzen.Response {
			return anzen.JSONIssues("invalid_search_params", issues)
		},
	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
		return anzen.JSON(map[string]any{"searchParams": ctx.SearchParams}), nil
	})
}

func createRaceHandler(log *slog.Logger) http.Handler {
	return anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		ID:     "/api/races",
		Logger: log,
		Body:   schema.Decode[race](),
		OnBodyValidationError: func(ctx context.Context, issues []schema.Issue) anzen.Response {
			return anzen.JSONIssues("invalid_body", issues)
		},
		OnError: func(ctx context.Context, err error) anzen.Response {
			return anzen.JSONError(&anzen.ErrorDetail{Code: "internal_error", Message: "Internal server error"})
		},
	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
		body, _ := anzen.BodyAs[race](ctx)
		return anzen.JSON(map[string]any{"race": body}, anzen.WithStatus(http.StatusCreated)), nil
	})
}

var raceSegments = schema.Dictionary{
	{Name: "raceId", Schema: schema.Refine(schema.String(), schema.MinLen(2))},
}

func raceHandler(log *slog.Logger) http.Handler {
	return anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		ID:       "/api/races/[raceId]",
		Logger:   log,
		Segments: raceSegments,
		OnSegmentsValidationError: func(ctx context.Context, issues []schema.Issue) anzen.Response {
			return anzen.JSONIssues("invalid_segments", issues)
		},
	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
		return anzen.JSON(map[string]any{"segments": ctx.Segments}), nil
	})
}

func raceCardHandler(log *slog.Logger) http.Handler {
	return anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		ID:       "/api/races/[raceId]/card",
		Logger:   log,
		Segments: raceSegments,
	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
		id := ctx.Segments.String("raceId")
		return anzen.Templ(card("Race", id), anzen.WithTarget("#race-"+id), anzen.WithPatchMode(anzen.PatchOuter)), nil
	})
}

func uploadHandler(log *slog.Logger) http.Handler {
	return anzen.MustRouteHandler(anzen.RouteOptions[struct{}]{
		ID:     "/api/upload",
		Logger: log,
		FormData: schema.Dictionary{
			{Name: "name", Schema: schema.Refine(schema.String(), schema.NotBlank())},
			{Name: "file", Schema: schema.File(5 << 20)},
		},
		OnFormDataValidationError: func(ctx context.Context, issues []schema.Issue) anzen.Response {
			return anzen.JSONIssues("invalid_form_data", issues)
		},
	}, func(ctx *anzen.RouteContext[struct{}], r *http.Request) (anzen.Response, error) {
		file, _ := schema.Get[*multipart.FileHeader](ctx.FormData, "file")
		return anzen.JSON(map[string]any{
			"name":     ctx.FormData.String("name"),
			"filename": file.Filename,
			"size":     file.Size,
		}, anzen.WithStatus(http.StatusCreated)), nil
	})
}

func homePage(log *slog.Logger) *anzen.Page[struct{}] {
	return anzen.MustPage(anzen.PageOptions[struct{}]{ID: "/", Logger: log},
		func(ctx *anzen.PageContext[struct{}]) (templ.Component, error) {
			return card("anzen", "Validated handlers and components"), nil
		})
}

func blobPage(log *slog.Logger) *anzen.Page[string] {
	return anzen.MustPage(anzen.PageOptions[string]{
		ID:       "/playground/blob/[id]",
		Logger:   log,
		Segments: schema.Dictionary{{Name: "id", Schema: schema.String()}},
		SearchParams: schema.Dictionary{
			{Name: "q", Schema: schema.Optional(schema.String())},
		},
		Authorize: func(ctx context.Context, p anzen.ComponentAuthorizeParams) (string, error) {
			params, err := p.Params.Await(ctx)
			if err != nil {
				return "", err
			}
			if params["id"] != "vercel" {
				return "", anzen.NotFound()
			}
			return "page:John Doe", nil
		},
	}, func(ctx *anzen.PageContext[string]) (templ.Component, error) {
		query := ctx.SearchParams.String("q")
		if strings.TrimSpace(query) == "" {
			query = "No query"
		}
		return blob(ctx.Auth, ctx.Segments.String("id"), query), nil
	})
}

func blobLayout(log *slog.Logger) *anzen.Layout[string] {
	return anzen.MustLayout(anzen.LayoutOptions[string]{
		ID:     "/playground/blob/[id]/layout",
		Logger: log,
		Authorize: func(ctx context.Context, p anzen.ComponentAuthorizeParams) (string, error) {
			return "layout:John Doe", nil
		},
	}, func(ctx *anzen.LayoutContext[string]) (templ.Component, error) {
		return shell(ctx.Auth, ctx.Children), nil
	})
}

func parallelLayout(log *slog.Logger) *anzen.Layout[struct{}] {
	return anzen.MustLayout(anzen.LayoutOptions[struct{}]{
		ID:     "/playground/parallel/layout",
		Logger: log,
		Slots:  []string{"analytics", "team"},
	}, func(ctx *anzen.LayoutContext[struct{}]) (templ.Component, error) {
		return columns(ctx.Children, ctx.Slot("analytics"), ctx.Slot("team")), nil
	})
}

func notFoundPage(log *slog.Logger) *anzen.Page[struct{}] {
	return anzen.MustPage(anzen.PageOptions[struct{}]{ID: "/not-found", Logger: log},
		func(ctx *anzen.PageContext[struct{}]) (templ.Component, error) {
			return nil, anzen.Redirect("/")
		})
}

func staticView(c templ.Component) anzen.View {
	return func(*http.Request) templ.Component { return c }
}
