package anzen_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anzen"
)

func TestSettingsLoggingEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings anzen.Settings
		debug    *bool
		want     bool
	}{
		{name: "development", settings: anzen.Settings{Env: "development"}, want: true},
		{name: "empty env", settings: anzen.Settings{}, want: true},
		{name: "production", settings: anzen.Settings{Env: "production"}, want: false},
		{name: "production with debug env", settings: anzen.Settings{Env: "prod", Debug: true}, want: true},
		{name: "explicit off", settings: anzen.Settings{Env: "development"}, debug: ptr(false), want: false},
		{name: "explicit on in production", settings: anzen.Settings{Env: "production"}, debug: ptr(true), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.settings.LoggingEnabled(tt.debug))
		})
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Parallel()

	s, err := anzen.LoadSettings()
	assert.NoError(t, err)
	assert.Positive(t, s.MaxMemory)
}

func TestLoadSettingsIgnoresDotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "ANZEN_DOTENV_MARKER=loaded\nANZEN_MAX_MEMORY=1024\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Chdir(dir)
	t.Setenv("ANZEN_MAX_MEMORY", "2048")

	s, err := anzen.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, int64(2048), s.MaxMemory)

	_, err = anzen.NewRouteHandler(anzen.RouteOptions[struct{}]{ID: "/dotenv"},
		func(*anzen.RouteContext[struct{}], *http.Request) (anzen.Response, error) {
			return anzen.Text(http.StatusOK, "ok"), nil
		})
	require.NoError(t, err)

	_, set := os.LookupEnv("ANZEN_DOTENV_MARKER")
	assert.False(t, set, ".env must be left to the application")
}
