package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/pascal/internal/compiler"
)

// run: interpret a source file
var RunCmd = &cobra.Command{
	Use:   "run <file.pas|->",
	Short: "Interpret a Pascal source file and print its variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, name, err := compiler.ReadSource(args[0])
		if err != nil {
			return err
		}

		if cfg.Debug.AST {
			program, err := compiler.Parse(bytes.NewReader(src), name, options())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), program.String())
		}

		res, err := compiler.Run(cmd.Context(), bytes.NewReader(src), name, options())
		if err != nil {
			return err
		}
		return renderer(cmd.OutOrStdout()).Result(res)
	},
}
