package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"erpcalc/internal/calc"
	"erpcalc/internal/config"
	"erpcalc/internal/exporter"
	"erpcalc/internal/infrastructure"
	"erpcalc/internal/input"
	api "erpcalc/pkg/contracts/api/v1"
	"erpcalc/pkg/contracts/events"
)

// EngineSettings supplies the current calculator defaults and input limits.
// *config.Runtime implements it.
type EngineSettings interface {
	Engine() config.EngineConfig
}

// Broadcaster publishes calculation events. *websocket.Hub implements it.
type Broadcaster interface {
	Broadcast(ctx context.Context, msgType events.MessageType, data interface{})
}

// Calculation is one finished calculator run
type Calculation struct {
	ID         string
	Calculator string
	Lines      int
	Result     *calc.Result
	Duration   time.Duration
}

// Response converts the calculation into its API representation
func (c *Calculation) Response() *api.CalculationResponse {
	return &api.CalculationResponse{
		ID:         c.ID,
		Calculator: c.Calculator,
		Lines:      c.Lines,
		Result:     c.Result,
		DurationMS: float64(c.Duration.Microseconds()) / 1000,
	}
}

// Export is a rendered export file
type Export struct {
	*Calculation
	Format   exporter.Format
	FileName string
	Data     []byte
}

// CalculationService runs calculators on behalf of the transport layers
type CalculationService struct {
	settings  EngineSettings
	hub       Broadcaster
	tracer    trace.Tracer
	metrics   *infrastructure.CalculationMetrics
	bomPrefix bool
	logger    *slog.Logger
}

// NewCalculationService creates a calculation service. hub, tracer and metrics may be nil.
func NewCalculationService(settings EngineSettings, hub Broadcaster, tracer trace.Tracer, metrics *infrastructure.CalculationMetrics, bomPrefix bool, logger *slog.Logger) *CalculationService {
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}
	return &CalculationService{
		settings:  settings,
		hub:       hub,
		tracer:    tracer,
		metrics:   metrics,
		bomPrefix: bomPrefix,
		logger:    logger.With(slog.String("component", "calculation_service")),
	}
}

// Calculators lists the registered calculators in name order
func (s *CalculationService) Calculators() []calc.Calculator {
	return calc.All()
}

// Calculate parses the request input and runs the named calculator on it.
// Engine errors are returned unwrapped so callers can map them.
func (s *CalculationService) Calculate(ctx context.Context, name string, req api.CalculationRequest) (*Calculation, error) {
	ctx, span := s.tracer.Start(ctx, "calculation.run",
		trace.WithAttributes(attribute.String("calculator", name)))
	defer span.End()

	calculator, err := calc.Lookup(name)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	engine := s.settings.Engine()
	lines, err := prepareInput(name, req, engine)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "calculation input rejected",
			slog.String("calculator", name),
			slog.String("error", err.Error()))
		return nil, err
	}
	span.SetAttributes(attribute.Int("input.lines", len(lines)))

	params := req.Params()
	if params.Window == 0 {
		params.Window = engine.DefaultWindow
	}
	if params.Horizon == nil {
		horizon := engine.DefaultHorizon
		params.Horizon = &horizon
	}

	id := uuid.New().String()
	start := time.Now()
	res, err := calculator.Calculate(lines, params)
	duration := time.Since(start)
	s.metrics.RecordCalculation(ctx, name, len(lines), duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.WarnContext(ctx, "calculation failed",
			slog.String("calculation_id", id),
			slog.String("calculator", name),
			slog.Int("lines", len(lines)),
			slog.String("error", err.Error()))
		s.publish(ctx, events.MessageTypeCalculationFailed, events.CalculationEvent{
			CalculationID: id,
			Calculator:    name,
			Lines:         len(lines),
			DurationMS:    float64(duration.Microseconds()) / 1000,
			Error:         err.Error(),
		})
		return nil, err
	}

	s.logger.InfoContext(ctx, "calculation completed",
		slog.String("calculation_id", id),
		slog.String("calculator", name),
		slog.Int("lines", len(lines)),
		slog.Int("rows", len(res.Rows)),
		slog.Duration("duration", duration))

	calculation := &Calculation{
		ID:         id,
		Calculator: name,
		Lines:      len(lines),
		Result:     res,
		Duration:   duration,
	}
	s.publish(ctx, events.MessageTypeCalculationComplete, events.CalculationEvent{
		CalculationID: id,
		Calculator:    name,
		Lines:         len(lines),
		Rows:          len(res.Rows),
		DurationMS:    float64(duration.Microseconds()) / 1000,
	})
	return calculation, nil
}

// Export runs the calculator and renders the result in format. table selects
// a secondary table for CSV.
func (s *CalculationService) Export(ctx context.Context, name string, req api.CalculationRequest, format exporter.Format, table string) (*Export, error) {
	calculation, err := s.Calculate(ctx, name, req)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "calculation.export",
		trace.WithAttributes(
			attribute.String("calculator", name),
			attribute.String("format", string(format))))
	defer span.End()

	var buf bytes.Buffer
	if err := exporter.Write(&buf, calculation.Result, format, exporter.WriteOptions{Table: table, BOMPrefix: s.bomPrefix}); err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("calculation_id", calculation.ID),
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	s.metrics.RecordExport(ctx, name, string(format))

	fileName := exporter.FileName(calculation.Result, format)
	if table != "" {
		fileName = strings.TrimSuffix(fileName, format.Extension()) + "_" + table + format.Extension()
	}
	return &Export{
		Calculation: calculation,
		Format:      format,
		FileName:    fileName,
		Data:        buf.Bytes(),
	}, nil
}

func (s *CalculationService) publish(ctx context.Context, msgType events.MessageType, event events.CalculationEvent) {
	if s.hub != nil {
		s.hub.Broadcast(ctx, msgType, event)
	}
}

// prepareInput normalises the request input into trimmed lines and applies
// the configured limits and the calculator's minimum record count.
func prepareInput(name string, req api.CalculationRequest, engine config.EngineConfig) ([]string, error) {
	text := req.Input
	if len(req.Lines) > 0 {
		text = strings.Join(req.Lines, "\n")
	}
	if engine.MaxInputBytes > 0 && len(text) > engine.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the limit of %d", ErrInputTooLarge, len(text), engine.MaxInputBytes)
	}

	lines := input.ParseLines(text)
	if engine.MaxInputLines > 0 && len(lines) > engine.MaxInputLines {
		return nil, fmt.Errorf("%w: %d lines exceeds the limit of %d", ErrInputTooLarge, len(lines), engine.MaxInputLines)
	}
	if err := input.Validate(lines, input.MinRecords(name)); err != nil {
		return nil, err
	}
	return lines, nil
}
