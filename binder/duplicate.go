package binder

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Duplicate returns a copy of r whose body can be consumed without
// affecting r.
//
// The body of r is read into memory once and replaced with an equivalent
// in-memory reader, so r stays readable for the final handler. Headers and
// URL are deep-copied by http.Request.Clone.
func Duplicate(r *http.Request) (*http.Request, error) {
	dup := r.Clone(r.Context())

	if r.Body == nil || r.Body == http.NoBody {
		dup.Body = http.NoBody
		return dup, nil
	}

	data, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadBody, err)
	}

	getBody := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	r.Body, _ = getBody()
	r.GetBody = getBody
	r.ContentLength = int64(len(data))

	dup.Body, _ = getBody()
	dup.GetBody = getBody
	dup.ContentLength = int64(len(data))

	return dup, nil
}

// DuplicateOnRead is like Duplicate but postpones buffering until the
// copy's body is first read. A copy whose body is never read leaves r
// untouched. Read errors surface from the copy's Body.Read.
func DuplicateOnRead(r *http.Request) *http.Request {
	dup := r.Clone(r.Context())
	if r.Body == nil || r.Body == http.NoBody {
		dup.Body = http.NoBody
		return dup
	}
	dup.Body = &lazyBody{src: r}
	return dup
}

type lazyBody struct {
	src    *http.Request
	body   io.ReadCloser
	err    error
	loaded bool
}

func (b *lazyBody) Read(p []byte) (int, error) {
	if !b.loaded {
		b.loaded = true
		dup, err := Duplicate(b.src)
		if err != nil {
			b.err = err
		} else {
			b.body = dup.Body
		}
	}
	if b.err != nil {
		return 0, b.err
	}
	return b.body.Read(p)
}

func (b *lazyBody) Close() error {
	return nil
}
