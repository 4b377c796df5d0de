// Package environment names the application environment and carries it
// through context.Context and structured logs.
//
// Parse normalizes names read from configuration ("prod", "production",
// "dev", ...), and Environment.IsProduction drives production-only
// behavior such as silencing debug logging.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
//
//	if environment.IsProduction(ctx) {
//	    // production-specific behaviour
//	}
//
// LoggerExtractor adds the environment stored in a context to every log
// record when registered with logger.WithContextExtractors.
package environment
