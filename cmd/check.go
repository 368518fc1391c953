package cmd

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/pascal/internal/compiler"
)

// check: parse and analyze without running
var CheckCmd = &cobra.Command{
	Use:   "check <file.pas|->",
	Short: "Parse and analyze a source file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, name, err := compiler.ReadSource(args[0])
		if err != nil {
			return err
		}
		res, err := compiler.Check(cmd.Context(), bytes.NewReader(src), name, options())
		if err != nil {
			return err
		}
		return renderer(cmd.OutOrStdout()).Check(res)
	},
}
