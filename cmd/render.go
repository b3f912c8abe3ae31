package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/flowgen/internal/diagram"
	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/watcher"
)

var renderCmd = &cobra.Command{
	Use:   "render <workflow.json>",
	Short: "Draw an existing workflow file",
	Long: `Draw a workflow file as a terminal diagram, or write it as SVG.

With --watch the diagram is redrawn every time the file changes, which is
handy while editing a workflow by hand.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("svg", "", "write the diagram as SVG to this file")
	renderCmd.Flags().Bool("watch", false, "redraw when the file changes")
	renderCmd.Flags().Int("width", 100, "diagram width in cells")
	renderCmd.Flags().Int("height", 30, "diagram height in rows")
}

func runRender(cmd *cobra.Command, args []string) error {
	closeLog := setupLogging(false)
	defer closeLog()

	path := args[0]
	svgPath, _ := cmd.Flags().GetString("svg")
	watch, _ := cmd.Flags().GetBool("watch")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	cache := diagram.NewCache()
	draw := func() error {
		data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user-supplied workflow file
		if err != nil {
			return fmt.Errorf("reading workflow: %w", err)
		}
		if svgPath != "" {
			written, err := writeSVG(svgPath, string(data))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "wrote", written)
			return nil
		}
		return printDiagram(cmd.OutOrStdout(), cache, string(data), width, height)
	}

	if err := draw(); err != nil && !watch {
		return err
	} else if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watchFile(ctx, path, func() {
		if err := draw(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	})
}

func printDiagram(w io.Writer, cache *diagram.Cache, text string, width, height int) error {
	res := cache.Build(text)
	if res.Skipped > 0 {
		log.Warn(log.CatRender, "Skipped unresolved or empty connections", "count", res.Skipped)
	}
	if res.Name != "" {
		fmt.Fprintln(w, res.Name)
	}
	_, err := fmt.Fprintln(w, cache.Text(text, width, height))
	return err
}

// watchFile calls onChange after every debounced change until ctx ends.
func watchFile(ctx context.Context, path string, onChange func()) error {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			log.Debug(log.CatWatcher, "File changed", "path", path, "at", time.Now().Format(time.TimeOnly))
			onChange()
		}
	}
}
