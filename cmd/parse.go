package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/pascal/internal/compiler"
)

// parse: dump the syntax tree
var ParseCmd = &cobra.Command{
	Use:   "parse <file.pas|->",
	Short: "Print the syntax tree of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, name, err := compiler.ReadSource(args[0])
		if err != nil {
			return err
		}
		program, err := compiler.Parse(bytes.NewReader(src), name, options())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), program.String())
		return err
	},
}
