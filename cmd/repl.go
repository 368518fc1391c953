package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/arnavsurve/pascal/internal/compiler"
	"github.com/arnavsurve/pascal/internal/compiler/diag"
)

const (
	replSource = "<repl>"
	contPrompt = "...     "
)

// repl: read, run, print
var ReplCmd = &cobra.Command{
	Use:   "repl",
	Short: "Read and run programs interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Enter a program ending in \"END.\"; :quit exits.")

		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		histPath := historyPath(cfg.Repl.HistoryFile)
		if histPath != "" {
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()
		}

		for {
			code, ok := readByParseProbe(ln, cfg.Repl.Prompt, contPrompt)
			if !ok {
				fmt.Fprintln(out)
				return nil
			}

			trimmed := strings.TrimSpace(code)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ":") {
				switch strings.ToLower(trimmed) {
				case ":quit", ":q":
					return nil
				default:
					fmt.Fprintln(out, "unknown command. Type :quit to exit.")
				}
				continue
			}

			ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
			res, err := compiler.Run(cmd.Context(), strings.NewReader(code), replSource, options())
			if err != nil {
				reportError(cmd.ErrOrStderr(), err)
				continue
			}
			if err := renderer(out).Result(res); err != nil {
				return err
			}
		}
	},
}

// readByParseProbe keeps reading lines while the buffer fails to parse only
// because it ended too early.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, perr := compiler.Parse(strings.NewReader(src), replSource, compiler.Options{})
		if perr != nil && diag.Incomplete(perr) {
			continue
		}
		return src, true
	}
}

// historyPath resolves a relative history file against the home directory.
func historyPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, name)
}
