package binder

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (32MB).
const DefaultMaxMemory = 32 << 20

const (
	mediaTypeURLEncoded = "application/x-www-form-urlencoded"
	mediaTypeMultipart  = "multipart/form-data"
)

// CheckFormContentType reports whether r declares a form content type:
// application/x-www-form-urlencoded or multipart/form-data.
// It returns ErrMissingContentType or ErrUnsupportedMediaType otherwise.
func CheckFormContentType(r *http.Request) error {
	_, err := formMediaType(r)
	return err
}

// Form parses the form body of r and returns its fields prepared for
// dictionary validation.
//
// Only body fields are returned, never the query string. Values are
// collapsed like Coerce. Uploaded files appear as *multipart.FileHeader, or
// []*multipart.FileHeader when a field carries several files. maxMemory
// bounds the part of a multipart body kept in memory; zero or less means
// DefaultMaxMemory. Larger file parts are spooled to temp files, which the
// caller removes with r.MultipartForm.RemoveAll unless r is the request the
// server dispatched.
//
// Example:
//
//	raw, err := binder.Form(r, 0)
//	// raw["title"] == "Report", raw["avatar"] == *multipart.FileHeader
func Form(r *http.Request, maxMemory int64) (map[string]any, error) {
	mediaType, err := formMediaType(r)
	if err != nil {
		return nil, err
	}

	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	switch mediaType {
	case mediaTypeURLEncoded:
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		return Coerce(r.PostForm), nil

	default:
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			return nil, fmt.Errorf("%w: malformed content type with boundary", ErrInvalidForm)
		}
		if !validBoundary(params["boundary"]) {
			return nil, fmt.Errorf("%w: invalid boundary parameter", ErrInvalidForm)
		}

		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		if r.MultipartForm == nil {
			return map[string]any{}, nil
		}
		return mergeFiles(Coerce(r.MultipartForm.Value), r.MultipartForm.File), nil
	}
}

func formMediaType(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return "", fmt.Errorf("%w: expected %s or %s", ErrMissingContentType, mediaTypeURLEncoded, mediaTypeMultipart)
	}

	// Extract media type without parameters
	mediaType := contentType
	if idx := strings.Index(contentType, ";"); idx != -1 {
		mediaType = contentType[:idx]
	}
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))

	if mediaType != mediaTypeURLEncoded && mediaType != mediaTypeMultipart {
		return "", fmt.Errorf("%w: got %s, expected %s or %s", ErrUnsupportedMediaType, mediaType, mediaTypeURLEncoded, mediaTypeMultipart)
	}
	return mediaType, nil
}

func mergeFiles(out map[string]any, files map[string][]*multipart.FileHeader) map[string]any {
	for key, headers := range files {
		if len(headers) == 0 {
			continue
		}

		existing, ok := out[key]
		if !ok {
			if len(headers) == 1 {
				out[key] = headers[0]
			} else {
				out[key] = append([]*multipart.FileHeader(nil), headers...)
			}
			continue
		}

		// A key used for both text values and files keeps every entry.
		var merged []any
		switch v := existing.(type) {
		case string:
			merged = append(merged, v)
		case []string:
			for _, s := range v {
				merged = append(merged, s)
			}
		}
		for _, h := range headers {
			merged = append(merged, h)
		}
		out[key] = merged
	}
	return out
}

// validBoundary follows RFC 2046: 1 to 70 characters from a restricted set,
// not ending with a space.
func validBoundary(boundary string) bool {
	if len(boundary) == 0 || len(boundary) > 70 || strings.HasSuffix(boundary, " ") {
		return false
	}
	for _, c := range boundary {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.ContainsRune("'()+_,-./:=? ", c):
		default:
			return false
		}
	}
	return true
}
