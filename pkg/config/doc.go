// Package config loads typed configuration from environment variables.
//
// It wraps github.com/caarlos0/env/v11 for struct parsing and
// github.com/joho/godotenv for .env files. Each configuration type is parsed
// once and cached for the lifetime of the process:
//
//	type ServerConfig struct {
//	    Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// LoadEnv reads additional .env files before the first Load. Reset clears
// the cache, which lets tests change the environment between loads.
package config
