package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"

	"erpcalc/internal/config"
)

// contextKey is a type for context keys
type contextKey string

// TraceIDContextKey is the key for storing trace ID in context
const TraceIDContextKey contextKey = "trace_id"

// NewLogger creates the application's JSON slog logger. level is shared so
// the threshold can change at runtime; nil means the configured level, fixed.
// The returned closer releases the log file, if one was opened.
func NewLogger(cfg config.LoggingConfig, level *slog.LevelVar) (*slog.Logger, func() error, error) {
	if level == nil {
		level = new(slog.LevelVar)
		level.Set(config.ParseLevel(cfg.Level))
	}

	output, closer, err := openOutput(cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		AddSource: cfg.Development,
		Level:     level,
	})
	return slog.New(&traceHandler{Handler: handler}), closer, nil
}

// NewLoggerTo creates a JSON logger writing to w, used by the CLI and tests
func NewLoggerTo(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(&traceHandler{Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})})
}

func openOutput(cfg config.LoggingConfig) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Output) {
	case "file", "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		if strings.EqualFold(cfg.Output, "file") {
			return file, file.Close, nil
		}
		return io.MultiWriter(os.Stdout, file), file.Close, nil
	default:
		return os.Stdout, noop, nil
	}
}

// traceHandler wraps a slog.Handler to automatically inject trace_id from context
type traceHandler struct {
	slog.Handler
}

// Handle adds trace_id to the record if present in context
func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a new Handler with additional attributes
func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup returns a new Handler with the given group name
func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID retrieves the trace ID from context. An explicit trace ID wins,
// then an active span, then the chi request ID.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(TraceIDContextKey).(string); ok && traceID != "" {
		return traceID
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return middleware.GetReqID(ctx)
}

// openLogFile opens or creates a log file with proper permissions
func openLogFile(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}
	return file, nil
}
