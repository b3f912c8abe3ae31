package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/flowgen/internal/diagram"
	"github.com/zjrosen/flowgen/internal/export"
	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/session"
)

var generateCmd = &cobra.Command{
	Use:   "generate [prompt]",
	Short: "Generate a workflow without the TUI",
	Long: `Generate a workflow from a prompt and print the formatted JSON.

The prompt is taken from the arguments, or from stdin when none are given.`,
	Example: `  flowgen generate "Every morning at 9 AM, post the weather to Discord"
  flowgen generate --complexity advanced --out alert.json --svg alert.svg < prompt.txt`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("stream", false, "echo fragments to stderr as they arrive")
	generateCmd.Flags().StringP("out", "o", "", "write the workflow to this file instead of stdout")
	generateCmd.Flags().String("svg", "", "also write the diagram as SVG to this file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	closeLog := setupLogging(false)
	defer closeLog()

	prompt, err := readPrompt(cmd, args)
	if err != nil {
		return err
	}

	stream, _ := cmd.Flags().GetBool("stream")
	out, _ := cmd.Flags().GetString("out")
	svgPath, _ := cmd.Flags().GetString("svg")

	tracer, shutdown, err := setupTracing()
	if err != nil {
		return err
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	complexity := cfg.Complexity()
	exp, err := generate(ctx, newClient(tracer), prompt, complexity, stream, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if out != "" {
		path, err := export.Download(filepath.Dir(out), filepath.Base(out), exp.Text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), exp.Text)
	}

	if svgPath != "" {
		path, err := writeSVG(svgPath, exp.Text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
	}
	return nil
}

// generate runs one session to completion and returns its export.
func generate(ctx context.Context, gen session.Generator, prompt string, complexity generator.Complexity, stream bool, w io.Writer) (session.Export, error) {
	ctrl := session.NewController(nil)
	tok := ctrl.Begin(prompt, complexity)

	text, err := gen.Generate(ctx, prompt, complexity, func(fragment string) {
		ctrl.Append(tok, fragment)
		if stream {
			_, _ = io.WriteString(w, fragment)
		}
	})
	if stream {
		_, _ = io.WriteString(w, "\n")
	}
	if err != nil {
		ctrl.Fail(tok, err)
		return session.Export{}, err
	}
	ctrl.Complete(tok, text)
	return ctrl.Export()
}

func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return "", fmt.Errorf("a prompt is required")
	}
	return prompt, nil
}

func writeSVG(path, text string) (string, error) {
	svg, err := diagram.RenderSVG(diagram.Build(text))
	if err != nil {
		return "", fmt.Errorf("rendering svg: %w", err)
	}
	log.Debug(log.CatRender, "Writing svg", "path", path, "bytes", len(svg))
	return export.Download(filepath.Dir(path), filepath.Base(path), svg)
}
