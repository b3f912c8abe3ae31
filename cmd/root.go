package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/flowgen/internal/app"
	"github.com/zjrosen/flowgen/internal/config"
	"github.com/zjrosen/flowgen/internal/export"
	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/tracing"
	"github.com/zjrosen/flowgen/internal/ui/styles"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply cannot race the input loop and land in the prompt.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	localConfigPath = ".flowgen/config.yaml"
	debugLogPath    = "debug.log"
)

var (
	version = "dev"
	cfgFile string
	debug   bool
	cfg     config.Config
)

// newStreamer builds the upstream client. Tests replace it.
var newStreamer = func(apiKey string) generator.Streamer {
	return generator.NewGeminiStreamer(apiKey)
}

var rootCmd = &cobra.Command{
	Use:   "flowgen",
	Short: "Generate n8n workflows from plain-language prompts",
	Long: `flowgen turns a plain-language description into an importable n8n workflow.
The document streams in from Gemini and is drawn as a diagram while it arrives.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .flowgen/config.yaml, then ~/.config/flowgen/config.yaml)")
	rootCmd.PersistentFlags().StringP("model", "m", "", "Gemini model name")
	rootCmd.PersistentFlags().String("complexity", "", "simple, intermediate or advanced")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false,
		"write a debug log to "+debugLogPath+" (also FLOWGEN_DEBUG=1)")

	rootCmd.AddCommand(generateCmd, renderCmd)
}

func setDefaults() {
	d := config.Defaults()
	viper.SetDefault("gemini.api_key", "")
	viper.SetDefault("gemini.model", d.Gemini.Model)
	viper.SetDefault("gemini.temperature", d.Gemini.Temperature)
	viper.SetDefault("generation.complexity", d.Generation.Complexity)
	viper.SetDefault("generation.output_dir", d.Generation.OutputDir)
	viper.SetDefault("ui.view", d.UI.View)
	viper.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	viper.SetDefault("ui.show_examples", d.UI.ShowExamples)
	viper.SetDefault("tracing.enabled", d.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", d.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", d.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

func initConfig() {
	setDefaults()
	_ = viper.BindPFlag("gemini.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("generation.complexity", rootCmd.PersistentFlags().Lookup("complexity"))

	viper.SetEnvPrefix("FLOWGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("gemini.api_key", "GEMINI_API_KEY", "API_KEY", "FLOWGEN_GEMINI_API_KEY")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .flowgen/config.yaml (current directory)
		// 2. ~/.config/flowgen/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "flowgen"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(userConfigPath()); writeErr == nil {
				viper.SetConfigFile(userConfigPath())
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)

	if !debug {
		debug = os.Getenv("FLOWGEN_DEBUG") != ""
	}
}

// userConfigPath is where a default config is created on first run.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return localConfigPath
	}
	return filepath.Join(home, ".config", "flowgen", "config.yaml")
}

// configFilePath is the file preferences are saved into, empty when no
// config file could be read or created.
func configFilePath() string {
	return viper.ConfigFileUsed()
}

// setupLogging enables the debug log when requested. tui routes Bubble
// Tea's own log output into the same file.
func setupLogging(tui bool) func() {
	if !debug {
		return func() {}
	}
	initLog := log.Init
	if tui {
		initLog = func(path string) (func(), error) { return log.InitWithTeaLog(path, "flowgen") }
	}
	cleanup, err := initLog(debugLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log disabled: %v\n", err)
		return func() {}
	}
	log.Info(log.CatConfig, "Config loaded", "file", viper.ConfigFileUsed(), "model", cfg.Gemini.Model)
	return cleanup
}

// setupTracing returns the tracer for this run and its shutdown func.
func setupTracing() (trace.Tracer, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("creating tracing provider: %w", err)
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}
	return provider.Tracer(), shutdown, nil
}

func newClient(tracer trace.Tracer) *generator.Client {
	gc := cfg.GeneratorConfig()
	return generator.New(gc, newStreamer(gc.APIKey), generator.WithTracer(tracer))
}

func runApp(cmd *cobra.Command, args []string) error {
	closeLog := setupLogging(true)
	defer closeLog()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Mode:   cfg.Theme.Mode,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}

	tracer, shutdown, err := setupTracing()
	if err != nil {
		return err
	}
	defer shutdown()

	zone.NewGlobal()

	model := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configFilePath(),
		Generator:  newClient(tracer),
		Clipboard:  export.SystemClipboard{Out: os.Stdout},
		Tracer:     tracer,
		Debug:      debug,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()

	if m, ok := final.(app.Model); ok {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
