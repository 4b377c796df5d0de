package binder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// JSON reads the body of r as a single JSON value.
//
// The result is the generic decoding (map[string]any, []any, string,
// float64, bool or nil) handed to a body schema. The content type is not
// checked. An empty body and trailing data after the value are reported
// as ErrInvalidJSON; a failing reader is reported as ErrReadBody.
func JSON(r *http.Request) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidJSON)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadBody, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidJSON)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))

	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	// Ensure entire body was consumed
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
	}

	return v, nil
}
