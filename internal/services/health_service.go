package services

import (
	"context"
	"log/slog"
	"time"

	"erpcalc/internal/calc"
	"erpcalc/internal/infrastructure"
	"erpcalc/pkg/contracts"
)

// HubStats reports websocket hub counters. *websocket.Hub implements it.
type HubStats interface {
	Stats() map[string]interface{}
}

// HealthService provides health check functionality
type HealthService struct {
	hub       HubStats
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                       `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Version   string                       `json:"version"`
	Runtime   *infrastructure.RuntimeStats `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth     `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewHealthService creates a new health service. hub may be nil.
func NewHealthService(hub HubStats, logger *slog.Logger) *HealthService {
	return &HealthService{
		hub:       hub,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.Duration("uptime", time.Since(hs.startTime)))

	stats := infrastructure.CollectRuntimeStats(hs.startTime)
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime:   &stats,
	}
}

// ReadinessCheck reports whether the engine and the websocket hub can serve
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services: map[string]ServiceHealth{
			"engine":    hs.checkEngine(),
			"websocket": hs.checkWebSocket(),
		},
	}

	for name, service := range status.Services {
		if service.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "service not ready",
				slog.String("service", name),
				slog.String("message", service.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (hs *HealthService) checkEngine() ServiceHealth {
	names := calc.Names()
	if len(names) == 0 {
		return ServiceHealth{Status: "not_ready", Message: "no calculators registered"}
	}
	return ServiceHealth{
		Status:  "ready",
		Details: map[string]interface{}{"calculators": names},
	}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.hub == nil {
		return ServiceHealth{Status: "ready", Message: "websocket disabled"}
	}
	return ServiceHealth{Status: "ready", Details: hs.hub.Stats()}
}
