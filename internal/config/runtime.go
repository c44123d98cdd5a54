package config

import (
	"log/slog"
	"strings"
	"sync"
)

// Runtime holds the settings that may change while the process runs. The
// log level is a slog.LevelVar so handlers built from it follow updates.
type Runtime struct {
	mu        sync.RWMutex
	level     *slog.LevelVar
	engine    EngineConfig
	rateLimit RateLimitConfig
	listeners []func(*Config)
}

// NewRuntime creates runtime settings seeded from cfg
func NewRuntime(cfg *Config) *Runtime {
	rt := &Runtime{level: new(slog.LevelVar)}
	rt.set(cfg)
	return rt
}

// ParseLevel converts a config level name to a slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (r *Runtime) set(cfg *Config) {
	r.level.Set(ParseLevel(cfg.Logging.Level))
	r.engine = cfg.Engine
	r.rateLimit = cfg.Security.RateLimit
}

// Apply swaps in the runtime portion of cfg and notifies listeners
func (r *Runtime) Apply(cfg *Config) {
	r.mu.Lock()
	r.set(cfg)
	listeners := append([]func(*Config){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(cfg)
	}
}

// OnChange registers fn to run after every Apply
func (r *Runtime) OnChange(fn func(*Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// LevelVar returns the shared log level
func (r *Runtime) LevelVar() *slog.LevelVar {
	return r.level
}

// Engine returns the current calculator defaults
func (r *Runtime) Engine() EngineConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engine
}

// RateLimit returns the current rate limit settings
func (r *Runtime) RateLimit() RateLimitConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rateLimit
}
