// Package config provides configuration types and defaults for flowgen.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/tracing"
)

// Output views.
const (
	ViewVisual = "visual"
	ViewJSON   = "json"
)

// Config holds all configuration options for flowgen.
type Config struct {
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Generation GenerationConfig `mapstructure:"generation"`
	UI         UIConfig         `mapstructure:"ui"`
	Theme      ThemeConfig      `mapstructure:"theme"`
	Tracing    tracing.Config   `mapstructure:"tracing"`
}

// GeminiConfig holds the upstream model settings.
type GeminiConfig struct {
	// APIKey is normally supplied through GEMINI_API_KEY rather than the file.
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

// GenerationConfig holds defaults for generate actions.
type GenerationConfig struct {
	Complexity string `mapstructure:"complexity"` // simple, intermediate (default) or advanced
	OutputDir  string `mapstructure:"output_dir"` // download directory (default: current directory)
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	View          string `mapstructure:"view"`           // "visual" (default) or "json"
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ShowExamples  bool   `mapstructure:"show_examples"`
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	Mode string `mapstructure:"mode"`

	// Colors overrides individual color tokens, nested or in dot notation:
	//   colors:
	//     "status.error": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// GeneratorConfig converts the Gemini section into the generator's config.
func (c Config) GeneratorConfig() generator.Config {
	return generator.Config{
		APIKey:      c.Gemini.APIKey,
		Model:       c.Gemini.Model,
		Temperature: c.Gemini.Temperature,
	}
}

// Complexity returns the configured default complexity.
func (c Config) Complexity() generator.Complexity {
	return generator.ParseComplexity(c.Generation.Complexity)
}

// DefaultTracesFilePath returns ~/.config/flowgen/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".flowgen", "traces", "traces.jsonl")
	}
	return filepath.Join(home, ".config", "flowgen", "traces", "traces.jsonl")
}

// ValidateGemini checks the model section. The API key is not checked here;
// a missing key surfaces as a generation failure.
func ValidateGemini(g GeminiConfig) error {
	if g.Temperature < 0 || g.Temperature > 2 {
		return fmt.Errorf("gemini.temperature must be between 0 and 2, got %v", g.Temperature)
	}
	return nil
}

// ValidateGeneration checks the generation defaults.
func ValidateGeneration(g GenerationConfig) error {
	if g.Complexity != "" && !generator.Complexity(g.Complexity).Valid() {
		return fmt.Errorf("generation.complexity must be \"simple\", \"intermediate\", or \"advanced\", got %q", g.Complexity)
	}
	return nil
}

// ValidateUI checks user interface options.
func ValidateUI(ui UIConfig) error {
	switch ui.View {
	case "", ViewVisual, ViewJSON:
	default:
		return fmt.Errorf("ui.view must be \"visual\" or \"json\", got %q", ui.View)
	}
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateTheme checks the mode and the format of color overrides. Token
// names are checked when the theme is applied.
func ValidateTheme(t ThemeConfig) error {
	switch t.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode must be \"light\" or \"dark\", got %q", t.Mode)
	}
	for key, value := range t.FlattenedColors() {
		if !hexColor.MatchString(value) {
			return fmt.Errorf("theme.colors.%s must be a hex color, got %q", key, value)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	if t.Exporter != "" {
		switch t.Exporter {
		case tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}
	if t.Enabled && t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// Validate runs every section validator and joins the failures.
func (c Config) Validate() error {
	return errors.Join(
		ValidateGemini(c.Gemini),
		ValidateGeneration(c.Generation),
		ValidateUI(c.UI),
		ValidateTheme(c.Theme),
		ValidateTracing(c.Tracing),
	)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Gemini: GeminiConfig{
			Model:       generator.DefaultModel,
			Temperature: generator.DefaultTemperature,
		},
		Generation: GenerationConfig{
			Complexity: string(generator.Intermediate),
			OutputDir:  ".",
		},
		UI: UIConfig{
			View:          ViewVisual,
			MarkdownStyle: "dark",
			ShowExamples:  true,
		},
		Tracing: tr,
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# flowgen configuration

# Gemini settings
# The API key is read from GEMINI_API_KEY (or API_KEY). Setting it here works
# too but keeps a secret in a plain file.
gemini:
  # api_key: ""
  model: gemini-2.5-flash   # any model that supports streaming text output
  temperature: 0.4          # 0.0 - 2.0

# Defaults for new generations
generation:
  complexity: intermediate  # simple, intermediate, or advanced
  output_dir: .             # where downloaded workflows are written

# UI settings
ui:
  view: visual              # initial output view: visual or json
  markdown_style: dark      # JSON highlighting style: dark or light
  show_examples: true       # show example prompts under the prompt box

# Theme configuration
theme:
  # preset: high-contrast   # default or high-contrast
  # mode: dark              # force light or dark; empty uses terminal detection
  #
  # Override specific colors:
  # colors:
  #   accent: "#6C3AF5"
  #   status.error: "#FF5555"
  #   diagram.edge: "#6C3AF5"

# Distributed tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/flowgen/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # 0.0 - 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
