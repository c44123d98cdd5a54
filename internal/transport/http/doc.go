// Package http implements the HTTP handlers of the calculation service.
// Handlers stay thin: they decode and validate the request, call the service
// layer and render the result with go-chi/render.
//
// # Routes
//
//	GET  /api/calculators                  list the registered calculators
//	POST /api/calculators/{name}           run a calculator on the posted input
//	POST /api/calculators/{name}/export    run and download as csv or xlsx
//	GET  /api/health[/live|/ready]         health probes
//	GET  /api/version                      build information
//
// # Error Handling
//
// Service and engine errors are rendered as RFC 7807 problem documents by
// internal/errors.ErrorHandler:
//
//	{
//	    "type": "/errors/calculation/insufficient-data",
//	    "title": "Insufficient Data",
//	    "status": 422,
//	    "detail": "insufficient data for the selected window: 2 values, window 3",
//	    "instance": "/api/calculators/forecast"
//	}
package http
