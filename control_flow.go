package anzen

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	redirectPrefix = "REDIRECT;"
	fallbackPrefix = "HTTP_ERROR_FALLBACK;"
)

// ControlFlowError is an intentional signal raised from a page, layout or
// their authorize function. It passes through the pipeline unlogged and
// never reaches OnError.
type ControlFlowError struct {
	digest string
}

func (e *ControlFlowError) Error() string {
	if loc, status, ok := parseRedirect(e.digest); ok {
		return fmt.Sprintf("anzen: redirect %d to %s", status, loc)
	}
	if code, err := strconv.Atoi(strings.TrimPrefix(e.digest, fallbackPrefix)); err == nil {
		return "anzen: " + strings.ToLower(http.StatusText(code))
	}
	return "anzen: " + e.digest
}

// Digest returns the structured signal code.
func (e *ControlFlowError) Digest() string {
	return e.digest
}

// Redirect signals a temporary (307) redirect to url.
func Redirect(url string) error {
	return redirect(url, http.StatusTemporaryRedirect)
}

// PermanentRedirect signals a permanent (308) redirect to url.
func PermanentRedirect(url string) error {
	return redirect(url, http.StatusPermanentRedirect)
}

func redirect(url string, status int) error {
	return &ControlFlowError{digest: fmt.Sprintf("%s%s;%d;", redirectPrefix, url, status)}
}

// NotFound signals that the requested resource does not exist.
func NotFound() error {
	return fallback(http.StatusNotFound)
}

// Forbidden signals that access is denied.
func Forbidden() error {
	return fallback(http.StatusForbidden)
}

// Unauthorized signals that authentication is required.
func Unauthorized() error {
	return fallback(http.StatusUnauthorized)
}

func fallback(status int) error {
	return &ControlFlowError{digest: fallbackPrefix + strconv.Itoa(status)}
}

// IsControlFlow reports whether err, or an error it wraps, exposes a
// Digest recognized as a redirect or a 404/403/401 fallback.
func IsControlFlow(err error) bool {
	var d interface{ Digest() string }
	if !errors.As(err, &d) {
		return false
	}
	digest := d.Digest()
	return strings.HasPrefix(digest, redirectPrefix) ||
		strings.HasSuffix(digest, ";404") ||
		strings.HasSuffix(digest, ";403") ||
		strings.HasSuffix(digest, ";401")
}

// controlFlowStatus maps a control-flow error to its HTTP outcome.
// location is set for redirects only.
func controlFlowStatus(err error) (status int, location string, ok bool) {
	var d interface{ Digest() string }
	if !IsControlFlow(err) || !errors.As(err, &d) {
		return 0, "", false
	}
	digest := d.Digest()
	if loc, status, ok := parseRedirect(digest); ok {
		return status, loc, true
	}
	code, err := strconv.Atoi(digest[strings.LastIndex(digest, ";")+1:])
	if err != nil {
		return 0, "", false
	}
	return code, "", true
}

// parseRedirect reads "REDIRECT;<url>;<status>;". The url may contain ';'.
func parseRedirect(digest string) (location string, status int, ok bool) {
	if !strings.HasPrefix(digest, redirectPrefix) {
		return "", 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(digest, redirectPrefix), ";")
	i := strings.LastIndex(rest, ";")
	if i < 0 {
		return rest, http.StatusTemporaryRedirect, true
	}
	status, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return rest, http.StatusTemporaryRedirect, true
	}
	return rest[:i], status, true
}
