package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, generator.DefaultModel, cfg.Gemini.Model)
	require.Equal(t, generator.DefaultTemperature, cfg.Gemini.Temperature)
	require.Equal(t, generator.Intermediate, cfg.Complexity())
	require.Equal(t, ViewVisual, cfg.UI.View)
	require.False(t, cfg.Tracing.Enabled)
	require.NotEmpty(t, cfg.Tracing.FilePath)
	require.NoError(t, cfg.Validate())
}

func TestGeneratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Gemini.APIKey = "key"

	gc := cfg.GeneratorConfig()
	require.Equal(t, "key", gc.APIKey)
	require.Equal(t, cfg.Gemini.Model, gc.Model)
	require.NoError(t, gc.Validate())
}

func TestComplexity_UnknownFallsBack(t *testing.T) {
	cfg := Config{Generation: GenerationConfig{Complexity: "extreme"}}
	require.Equal(t, generator.Intermediate, cfg.Complexity())
}

func TestValidateGemini(t *testing.T) {
	require.NoError(t, ValidateGemini(GeminiConfig{}))
	require.NoError(t, ValidateGemini(GeminiConfig{Temperature: 2}))
	require.Error(t, ValidateGemini(GeminiConfig{Temperature: -0.1}))
	require.Error(t, ValidateGemini(GeminiConfig{Temperature: 2.5}))
}

func TestValidateGeneration(t *testing.T) {
	require.NoError(t, ValidateGeneration(GenerationConfig{}))
	require.NoError(t, ValidateGeneration(GenerationConfig{Complexity: "advanced"}))

	err := ValidateGeneration(GenerationConfig{Complexity: "extreme"})
	require.ErrorContains(t, err, "generation.complexity")
}

func TestValidateUI(t *testing.T) {
	tests := []struct {
		name    string
		ui      UIConfig
		wantErr string
	}{
		{name: "empty", ui: UIConfig{}},
		{name: "json view", ui: UIConfig{View: ViewJSON, MarkdownStyle: "light"}},
		{name: "bad view", ui: UIConfig{View: "graph"}, wantErr: "ui.view"},
		{name: "bad style", ui: UIConfig{MarkdownStyle: "neon"}, wantErr: "ui.markdown_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUI(tt.ui)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateTheme(t *testing.T) {
	require.NoError(t, ValidateTheme(ThemeConfig{Mode: "dark", Colors: map[string]any{"accent": "#6C3AF5"}}))
	require.ErrorContains(t, ValidateTheme(ThemeConfig{Mode: "sepia"}), "theme.mode")
	require.ErrorContains(t, ValidateTheme(ThemeConfig{Colors: map[string]any{"status": map[string]any{"error": "red"}}}), "theme.colors.status.error")
}

func TestFlattenedColors(t *testing.T) {
	theme := ThemeConfig{Colors: map[string]any{
		"accent": "#111111",
		"status": map[string]any{"error": "#222222"},
		"diagram": map[any]any{
			"edge": "#333333",
		},
	}}

	require.Equal(t, map[string]string{
		"accent":       "#111111",
		"status.error": "#222222",
		"diagram.edge": "#333333",
	}, theme.FlattenedColors())
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(tracing.DefaultConfig()))
	require.Error(t, ValidateTracing(tracing.Config{SampleRate: 1.5}))
	require.Error(t, ValidateTracing(tracing.Config{Exporter: "zipkin"}))
	require.Error(t, ValidateTracing(tracing.Config{Enabled: true, Exporter: tracing.ExporterOTLP}))
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := Defaults()
	cfg.UI.View = "graph"
	cfg.Generation.Complexity = "extreme"

	err := cfg.Validate()
	require.ErrorContains(t, err, "ui.view")
	require.ErrorContains(t, err, "generation.complexity")
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	defaults := Defaults()
	require.Equal(t, defaults.Gemini.Model, cfg.Gemini.Model)
	require.InDelta(t, defaults.Gemini.Temperature, cfg.Gemini.Temperature, 1e-6)
	require.Equal(t, defaults.Generation, cfg.Generation)
	require.Equal(t, defaults.UI, cfg.UI)
	require.Empty(t, cfg.Gemini.APIKey)
}
