// Package tracing installs the OpenTelemetry tracer provider used by games.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/sweeper/internal/config"
	"github.com/zjrosen/sweeper/internal/log"
)

// ServiceName is reported as service.name on every span.
const ServiceName = "sweeper"

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(context.Context) error

// Setup builds a tracer provider for cfg and installs it globally. With the
// "none" exporter (or an empty one) a no-op provider is installed.
func Setup(ctx context.Context, cfg config.TracingConfig) (ShutdownFunc, error) {
	exporter, closeOutput, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
	)
	otel.SetTracerProvider(tp)
	log.Info(log.CatTrace, "Tracing enabled", "exporter", cfg.Exporter)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if closeOutput != nil {
			if cerr := closeOutput(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}

// newExporter returns nil for the none exporter. closeOutput is set when the
// exporter writes to a file Setup opened.
func newExporter(ctx context.Context, cfg config.TracingConfig) (sdktrace.SpanExporter, func() error, error) {
	switch cfg.Exporter {
	case "", config.ExporterNone:
		return nil, nil, nil

	case config.ExporterStdout:
		var (
			w           io.Writer = os.Stderr
			closeOutput func() error
		)
		if cfg.FilePath != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o750); err != nil {
				return nil, nil, fmt.Errorf("creating trace directory: %w", err)
			}
			f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec // path from user config
			if err != nil {
				return nil, nil, fmt.Errorf("opening trace file: %w", err)
			}
			w, closeOutput = f, f.Close
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			if closeOutput != nil {
				_ = closeOutput()
			}
			return nil, nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		return exp, closeOutput, nil

	case config.ExporterOTLP:
		opts := []otlptracegrpc.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		return exp, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown tracing exporter %q (expected none, stdout or otlp)", cfg.Exporter)
	}
}
