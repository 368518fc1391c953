package cmd

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/pascal/internal/compiler"
)

// tokens: dump the lexer output
var TokensCmd = &cobra.Command{
	Use:   "tokens <file.pas|->",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, name, err := compiler.ReadSource(args[0])
		if err != nil {
			return err
		}
		toks, err := compiler.Tokens(bytes.NewReader(src), name, options())
		if err != nil {
			return err
		}
		return renderer(cmd.OutOrStdout()).Tokens(toks)
	},
}
