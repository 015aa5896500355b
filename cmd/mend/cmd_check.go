package main

import (
	"fmt"

	"github.com/dhamidi/mend/ebnf"
	"github.com/spf13/cobra"
	xebnf "golang.org/x/exp/ebnf"
)

func newCheckCmd(a *app) *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse an EBNF grammar file and check that it compiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := a.fs.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			grammar, err := xebnf.Parse(filename, f)
			if err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return errDiagnostics
			}

			if startProduction == "" {
				return nil
			}
			if err := ebnf.Check(grammar, startProduction); err != nil {
				printErrors(cmd.OutOrStdout(), err)
				return errDiagnostics
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production to check (if empty, only checks syntax)")

	return cmd
}
