package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/pascal/internal/compiler"
	"github.com/arnavsurve/pascal/internal/watcher"
)

// watch: re-run source files on change
var WatchCmd = &cobra.Command{
	Use:   "watch [dir|file.pas]...",
	Short: "Re-run source files whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		onChange := func(changed []string) {
			for _, path := range changed {
				runWatched(ctx, path, out, errOut)
			}
		}

		w, err := watcher.NewWatcher(cfg.Watch.Debounce.Duration, cfg.Watch.Patterns, cfg.Watch.ExcludeDirs, onChange, watcher.WithLogger(logger))
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Watch(ctx, paths); err != nil {
			return err
		}
		logger.Info("watching", "paths", paths, "patterns", cfg.Watch.Patterns)

		<-ctx.Done()
		return nil
	},
}

func runWatched(ctx context.Context, path string, out, errOut io.Writer) {
	res, err := compiler.RunFile(ctx, path, options())
	if err != nil {
		fmt.Fprintf(errOut, "%s:\n", path)
		reportError(errOut, err)
		return
	}
	if err := renderer(out).Result(res); err != nil {
		logger.Error("writing result", "path", path, "error", err)
	}
}
