// Package app wires the calculation service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, ERPCALC_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Create the websocket hub and the services
//	4. Set up the chi router with middleware and handlers
//	5. Create the HTTP server
//
// # Lifecycle
//
// Run listens on the configured port and serves until its context is
// cancelled. The HTTP server, the websocket hub and the config file watcher
// run in one errgroup; when any of them fails or the context ends, the
// server is shut down gracefully and telemetry is flushed.
//
// A config file change is applied without a restart: the log level, the
// rate limits and the engine defaults follow the new file.
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package never calls
// os.Exit, so main controls the exit code.
package app
