package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"erpcalc/internal/calc"
	"erpcalc/internal/config"
	"erpcalc/internal/exporter"
	"erpcalc/internal/infrastructure"
	"erpcalc/internal/services"
	"erpcalc/internal/validation"
	"erpcalc/pkg/contracts"
	api "erpcalc/pkg/contracts/api/v1"
)

// output formats besides the export formats
const (
	outputTable = "table"
	outputJSON  = "json"
)

type options struct {
	calculator string
	in         string
	out        string
	format     string
	configPath string
	verbose    bool
	version    bool
	request    api.CalculationRequest
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var opts options
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.calculator, "calculator", "", "calculator to run: "+strings.Join(calc.Names(), ", "))
	fs.StringVar(&opts.in, "in", "-", "input file, one record per line (- for stdin)")
	fs.StringVar(&opts.out, "out", "", "output file for csv and xlsx (stdout when empty, csv only)")
	fs.StringVar(&opts.format, "format", outputTable, "output format: table, json, csv or xlsx")
	fs.StringVar(&opts.configPath, "config", "", "path to config.yaml")
	fs.BoolVar(&opts.verbose, "v", false, "log to stderr")
	fs.BoolVar(&opts.version, "version", false, "print the version and exit")

	fs.IntVar(&opts.request.Window, "window", 0, "forecast moving-average window")
	horizon := fs.Int("horizon", 0, "forecast periods to project (engine default when unset)")
	fs.StringVar(&opts.request.Weights, "weights", "", "comma-separated SAW weights")
	fs.StringVar(&opts.request.Overrides, "overrides", "", "BOM production quantities, e.g. Table:2,Chair:1")
	fs.BoolVar(&opts.request.PerLine, "per-line", false, "markov: treat every line as its own sequence")
	fs.BoolVar(&opts.request.Strict, "strict", false, "saw, profile: reject rows whose criteria count differs")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "horizon" {
			opts.request.Horizon = horizon
		}
	})
	if opts.version {
		return &opts, nil
	}
	if opts.calculator == "" {
		fs.Usage()
		return nil, errors.New("-calculator is required")
	}
	return &opts, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelError + 4)
	if opts.verbose {
		level.Set(config.ParseLevel(cfg.Logging.Level))
	}
	logger := infrastructure.NewLoggerTo(stderr, level)

	files := validation.NewFileValidator(logger)
	text, err := readInput(files, opts.in, stdin, int64(cfg.Engine.MaxInputBytes))
	if err != nil {
		return err
	}
	req := opts.request
	req.Input = text

	ctx := infrastructure.EnsureTraceID(context.Background())
	svc := services.NewCalculationService(config.NewRuntime(cfg), nil, nil, nil, cfg.Export.BOMPrefix, logger)

	calculation, err := svc.Calculate(ctx, opts.calculator, req)
	if err != nil {
		return err
	}

	switch opts.format {
	case outputTable:
		return writeTable(stdout, calculation.Result)
	case outputJSON:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(calculation.Response())
	}

	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.out == "" {
		if format == exporter.FormatXLSX {
			return errors.New("-out is required for xlsx output")
		}
		return exporter.Write(stdout, calculation.Result, format, exporter.WriteOptions{BOMPrefix: cfg.Export.BOMPrefix})
	}

	outDir := filepath.Dir(opts.out)
	if !filepath.IsAbs(opts.out) && cfg.Export.Dir != "" {
		outDir = filepath.Join(cfg.Export.Dir, outDir)
	}
	if err := files.ValidateOutputDirectory(outDir); err != nil {
		return err
	}

	path, err := exporter.NewFileExporter(cfg.Export.Dir, cfg.Export.BOMPrefix, logger).Save(opts.out, calculation.Result, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}

func readInput(files *validation.FileValidator, path string, stdin io.Reader, maxBytes int64) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	if err := files.ValidateInputFile(path, maxBytes); err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}
