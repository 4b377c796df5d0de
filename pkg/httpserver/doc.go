// Package httpserver runs an http.Handler with graceful shutdown.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Run returns when the context is cancelled or the process receives SIGINT
// or SIGTERM, after in-flight requests finished or the shutdown timeout
// elapsed. HealthCheckHandler provides liveness and readiness checks.
package httpserver
