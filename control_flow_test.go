package anzen_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anzen"
)

type digestError string

func (d digestError) Error() string  { return "digest " + string(d) }
func (d digestError) Digest() string { return string(d) }

func TestControlFlow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		digest  string
		message string
	}{
		{name: "redirect", err: anzen.Redirect("/login?next=/a;b"), digest: "REDIRECT;/login?next=/a;b;307;", message: "anzen: redirect 307 to /login?next=/a;b"},
		{name: "permanent redirect", err: anzen.PermanentRedirect("/"), digest: "REDIRECT;/;308;", message: "anzen: redirect 308 to /"},
		{name: "not found", err: anzen.NotFound(), digest: "HTTP_ERROR_FALLBACK;404", message: "anzen: not found"},
		{name: "forbidden", err: anzen.Forbidden(), digest: "HTTP_ERROR_FALLBACK;403", message: "anzen: forbidden"},
		{name: "unauthorized", err: anzen.Unauthorized(), digest: "HTTP_ERROR_FALLBACK;401", message: "anzen: unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cf *anzen.ControlFlowError
			assert.ErrorAs(t, tt.err, &cf)
			assert.Equal(t, tt.digest, cf.Digest())
			assert.Equal(t, tt.message, tt.err.Error())
			assert.True(t, anzen.IsControlFlow(tt.err))
			assert.True(t, anzen.IsControlFlow(fmt.Errorf("page: %w", tt.err)))
		})
	}
}

func TestIsControlFlow(t *testing.T) {
	t.Parallel()

	assert.False(t, anzen.IsControlFlow(nil))
	assert.False(t, anzen.IsControlFlow(errors.New("REDIRECT;/")))
	assert.False(t, anzen.IsControlFlow(digestError("SOMETHING;500")))
	assert.True(t, anzen.IsControlFlow(digestError("NEXT_HTTP_ERROR_FALLBACK;404")))
	assert.True(t, anzen.IsControlFlow(digestError("REDIRECT;replace;/home;303;")))
}
