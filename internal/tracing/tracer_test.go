package tracing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Enabled, "tracing should be disabled by default")
	require.Equal(t, ExporterFile, cfg.Exporter)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.SampleRate)
	require.Equal(t, "flowgen", cfg.ServiceName)
	require.NoError(t, cfg.Validate(), "disabled config is always valid")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"file without path", Config{Enabled: true, Exporter: ExporterFile}, "file_path"},
		{"unknown exporter", Config{Enabled: true, Exporter: "jaeger"}, "tracing.exporter"},
		{"sample rate too high", Config{Enabled: true, Exporter: ExporterStdout, SampleRate: 2}, "sample_rate"},
		{"stdout ok", Config{Enabled: true, Exporter: ExporterStdout, SampleRate: 0.5}, ""},
		{"none ok", Config{Enabled: true, Exporter: ExporterNone}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())

	ctx, span := provider.Tracer().Start(context.Background(), "test-span")
	require.NotNil(t, ctx)
	require.False(t, span.SpanContext().IsValid(), "no-op spans carry no context")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_FileExporter(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:     true,
		Exporter:    ExporterFile,
		FilePath:    tracePath,
		SampleRate:  1.0,
		ServiceName: "test-service",
	})
	require.NoError(t, err)
	require.True(t, provider.Enabled())

	_, span := provider.Tracer().Start(context.Background(), SpanGenerate)
	require.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	require.FileExists(t, tracePath)
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: ExporterFile})
	require.Error(t, err)
}

func TestNewProvider_NoneExporter(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: ExporterNone})
	require.NoError(t, err)

	_, span := provider.Tracer().Start(context.Background(), "internal-only")
	require.True(t, span.SpanContext().IsValid(), "spans are still sampled without an exporter")
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}
