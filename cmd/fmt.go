package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/pascal/internal/compiler"
)

var writeInPlace bool

// fmt: print canonical source
var FmtCmd = &cobra.Command{
	Use:   "fmt <file.pas|->",
	Short: "Print a source file in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if writeInPlace && path == compiler.StdinName {
			return errors.New("--write needs a file, not standard input")
		}

		src, name, err := compiler.ReadSource(path)
		if err != nil {
			return err
		}
		out, err := compiler.Format(bytes.NewReader(src), name, options())
		if err != nil {
			return err
		}

		if !writeInPlace {
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
		if bytes.Equal(src, []byte(out)) {
			return nil
		}
		n, err := compiler.CountComments(bytes.NewReader(src), name)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("refusing to rewrite %s: formatting would drop %d comment(s)", path, n)
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return err
		}
		logger.Info("formatted", "path", path)
		return nil
	},
}

func init() {
	FmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "rewrite the file in place")
}
