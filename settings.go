package anzen

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/anzen/binder"
	"github.com/dmitrymomot/anzen/internal/pipeline"
	"github.com/dmitrymomot/anzen/pkg/config"
	"github.com/dmitrymomot/anzen/pkg/environment"
	"github.com/dmitrymomot/anzen/pkg/logger"
)

// Settings holds process-wide defaults read from the environment.
type Settings struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	Debug     bool   `env:"ANZEN_DEBUG" envDefault:"false"`
	MaxMemory int64  `env:"ANZEN_MAX_MEMORY" envDefault:"33554432"`
}

// LoadSettings reads Settings from the process environment. It never
// loads .env files; applications that keep settings there call
// config.Load or config.LoadEnv first.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := config.Parse(&s); err != nil {
		return Settings{Env: string(environment.Development), MaxMemory: binder.DefaultMaxMemory}, err
	}
	return s, nil
}

// LoggingEnabled reports whether pipeline logs are emitted: debug when set,
// otherwise outside production or with ANZEN_DEBUG.
func (s Settings) LoggingEnabled(debug *bool) bool {
	if debug != nil {
		return *debug
	}
	return s.Debug || !environment.Parse(s.Env).IsProduction()
}

type common struct {
	id     string
	log    *slog.Logger
	tracer trace.Tracer
	limit  int64
}

func resolve(id, fallback string, debug *bool, l *slog.Logger, tp trace.TracerProvider) common {
	s, _ := LoadSettings()
	if id == "" {
		id = fallback
	}
	c := common{
		id:    id,
		log:   logger.Conditional(l, s.LoggingEnabled(debug)),
		limit: s.MaxMemory,
	}
	if tp != nil {
		c.tracer = tp.Tracer(pipeline.TracerName)
	}
	if c.limit <= 0 {
		c.limit = binder.DefaultMaxMemory
	}
	return c
}
