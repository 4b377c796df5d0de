// Command example serves a demo site built from anzen route handlers,
// pages and layouts.
package main

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrymomot/anzen/pkg/config"
	"github.com/dmitrymomot/anzen/pkg/environment"
	"github.com/dmitrymomot/anzen/pkg/httpserver"
	"github.com/dmitrymomot/anzen/pkg/logger"
	"github.com/dmitrymomot/anzen/pkg/requestid"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"anzen-example"`
	Tracing bool   `env:"TRACING_ENABLED" envDefault:"false"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)

	env := environment.Parse(cfg.Env)
	log := logger.New(
		logger.WithEnvironment(env.String(), cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor(), environment.LoggerExtractor(), logger.TraceExtractor()),
	)
	logger.SetAsDefault(log)

	ctx := context.Background()

	if cfg.Tracing {
		shutdown, err := initTracer(cfg.Service, log)
		if err != nil {
			log.Error("tracer init failed", logger.Error(err))
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Error("tracer shutdown failed", logger.Error(err))
			}
		}()
	}

	handler := otelhttp.NewHandler(newRouter(env, log), cfg.Service)

	srv := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, handler); err != nil {
		log.Error("server failed", logger.Error(err))
		os.Exit(1)
	}
}
