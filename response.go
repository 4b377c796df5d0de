package anzen

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/anzen/schema"
)

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ResponseFunc adapts a function to Response.
type ResponseFunc func(w http.ResponseWriter, r *http.Request) error

// Render calls f(w, r).
func (f ResponseFunc) Render(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

type textResponse struct {
	status int
	body   string
}

func (t textResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(t.status)
	_, err := w.Write([]byte(t.body))
	return err
}

// Text creates a plain-text response.
func Text(status int, body string) Response {
	return textResponse{status: status, body: body}
}

// ErrorDetail is the body of a JSON error response.
type ErrorDetail struct {
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message,omitempty"`
	Issues  []schema.Issue `json:"issues,omitempty"`
}

type errorEnvelope struct {
	Error *ErrorDetail `json:"error"`
}

type jsonResponse struct {
	status int
	header http.Header
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for k, v := range j.header {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithStatus sets the HTTP status code.
func WithStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithHeader adds a response header.
func WithHeader(key, value string) JSONOption {
	return func(r *jsonResponse) {
		if r.header == nil {
			r.header = http.Header{}
		}
		r.header.Add(key, value)
	}
}

// JSON encodes v as the response body with status 200 unless overridden.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders {"error": {...}}. A plain error becomes an
// "internal_error" detail; the status defaults to 500.
func JSONError(err any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusInternalServerError}

	switch e := err.(type) {
	case *ErrorDetail:
		r.body = errorEnvelope{Error: e}
	case error:
		r.body = errorEnvelope{Error: &ErrorDetail{Code: "internal_error", Message: e.Error()}}
	default:
		r.body = errorEnvelope{Error: &ErrorDetail{Code: "internal_error", Message: http.StatusText(r.status)}}
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONIssues renders validation issues as a 400 JSON error with the given
// code, e.g. "invalid_body".
func JSONIssues(code string, issues []schema.Issue) Response {
	return JSONError(&ErrorDetail{
		Code:    code,
		Message: "Validation failed",
		Issues:  issues,
	}, WithStatus(http.StatusBadRequest))
}

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty creates a 204 No Content response.
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

// EmptyWithStatus creates a body-less response with the given status.
func EmptyWithStatus(status int) Response {
	return emptyResponse{status: status}
}

type headerResponse struct {
	Response
	header http.Header
}

func (h headerResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for k, v := range h.header {
		w.Header()[k] = v
	}
	return h.Response.Render(w, r)
}

// withHeader sets extra headers before resp renders.
func withHeader(resp Response, key, value string) Response {
	return headerResponse{Response: resp, header: http.Header{key: {value}}}
}
