// Package services implements the business logic layer between the HTTP
// handlers and the calculation engine.
//
// # Available Services
//
//	- CalculationService: parses input, dispatches to the calculator
//	  registry, records metrics and traces, and publishes websocket events
//	- HealthService: liveness, readiness and version reporting
//
// # Error Handling
//
// Engine errors (calc.ErrInsufficientData, *calc.AlignmentError,
// *calc.ParamError, *input.CountError) are returned as is, so handlers map
// them with errors.Is and errors.As. Input limit violations wrap
// ErrInputTooLarge and writer failures wrap ErrExportFailed.
package services
