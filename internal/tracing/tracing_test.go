package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zjrosen/sweeper/internal/config"
)

func TestSetup_None(t *testing.T) {
	for _, exporter := range []string{"", config.ExporterNone} {
		shutdown, err := Setup(context.Background(), config.TracingConfig{Exporter: exporter})
		require.NoError(t, err)
		require.NoError(t, shutdown(context.Background()))

		_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
		require.False(t, isSDK, "none installs a no-op provider")
	}
}

func TestSetup_StdoutToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "spans.json")

	shutdown, err := Setup(context.Background(), config.TracingConfig{
		Exporter: config.ExporterStdout,
		FilePath: path,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "game.open")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"game.open"`)
	require.Contains(t, string(data), ServiceName)
}

func TestSetup_OTLP(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{
		Exporter: config.ExporterOTLP,
		Endpoint: "127.0.0.1:4317",
		Insecure: true,
	})
	require.NoError(t, err, "the grpc client connects lazily")
	require.NotNil(t, shutdown)

	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	require.True(t, isSDK)
	_ = shutdown(context.Background())
}

func TestSetup_UnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), config.TracingConfig{Exporter: "jaeger"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown tracing exporter "jaeger"`)
}
