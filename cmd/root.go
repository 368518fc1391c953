package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/pascal/internal/compiler"
	"github.com/arnavsurve/pascal/internal/config"
	"github.com/arnavsurve/pascal/internal/report"
)

var (
	cfgFile      string
	verbose      bool
	format       string
	noColor      bool
	traceTokens  bool
	traceSymbols bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pascal",
	Short: "Pascal CLI: interpreter, checker and formatter for a Pascal subset",
	Long: `pascal runs programs written in a small Pascal subset: integer and real
variables, nested procedures, assignments and arithmetic.

Commands:
  run     Interpret a (.pas) source file and print its variables
  tokens  Print the token stream of a source file
  parse   Print the syntax tree of a source file
  check   Parse and analyze a source file without running it
  fmt     Print a source file in canonical form
  repl    Read and run programs interactively
  watch   Re-run source files whenever they change
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err)
	}
	return err
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", config.DefaultPath, "config file (toml or yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	flags.StringVarP(&format, "format", "f", "", "output format: "+strings.Join(config.Formats, ", "))
	flags.BoolVar(&noColor, "no-color", false, "disable styled output")
	flags.BoolVar(&traceTokens, "trace-tokens", false, "log every token (implies --verbose)")
	flags.BoolVar(&traceSymbols, "trace-symbols", false, "log every scope define and lookup (implies --verbose)")

	rootCmd.AddCommand(RunCmd, TokensCmd, ParseCmd, CheckCmd, FmtCmd, ReplCmd, WatchCmd)
}

// setup loads the config file and lets flags override it.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if format != "" {
		if !slices.Contains(config.Formats, format) {
			return fmt.Errorf("--format must be one of %s, got %q", strings.Join(config.Formats, ", "), format)
		}
		cfg.Output.Format = format
	}
	if noColor {
		cfg.Output.Color = false
	}
	cfg.Debug.Tokens = cfg.Debug.Tokens || traceTokens
	cfg.Debug.Symbols = cfg.Debug.Symbols || traceSymbols

	level := cfg.SlogLevel()
	if verbose || cfg.Debug.Tokens || cfg.Debug.Symbols {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func options() compiler.Options {
	return compiler.Options{
		Logger:       logger,
		TraceTokens:  cfg.Debug.Tokens,
		TraceSymbols: cfg.Debug.Symbols,
	}
}

func renderer(w io.Writer) *report.Renderer {
	return report.New(w, cfg.Output.Format, cfg.Output.Color)
}

func reportError(w io.Writer, err error) {
	if cfg == nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if rerr := renderer(w).Error(err); rerr != nil {
		fmt.Fprintf(w, "Error: %v\n", errors.Join(err, rerr))
	}
}
