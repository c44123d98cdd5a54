// Package config provides configuration management for erpcalc. It loads
// configuration from multiple sources, validates it, and exposes the subset
// that may change at runtime.
//
// # Configuration Sources
//
// Configuration is layered, later sources winning:
//
//	1. Default values
//	2. YAML file (config.yaml, configs/config.yaml, or an explicit path)
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern ERPCALC_<SECTION>_<FIELD>:
//
//	ERPCALC_SERVER_PORT=8080
//	ERPCALC_LOGGING_LEVEL=debug
//	ERPCALC_ENGINE_DEFAULT_WINDOW=4
//	ERPCALC_SECURITY_RATE_LIMIT_RPS=20
//	ERPCALC_EXPORT_DIR=/var/lib/erpcalc/exports
//
// # Validation
//
// Constraints are declared as validator struct tags and checked by Load.
//
// # Hot Reload
//
// Watch reloads the YAML file when it changes. Runtime carries the settings
// that can follow a reload (log level, calculator defaults, rate limit):
//
//	rt := config.NewRuntime(cfg)
//	go config.Watch(ctx, path, logger, rt.Apply)
package config
