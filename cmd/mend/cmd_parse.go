package main

import (
	"fmt"

	"github.com/dhamidi/mend/config"
	"github.com/dhamidi/mend/format"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a file and report errors and the repairs that fix them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := a.readInput(cmd, args)
			if err != nil {
				return err
			}
			g, err := a.registry.Resolve(a.cfg.Grammar, name)
			if err != nil {
				return err
			}
			pr, err := g.Parse(name, src, a.parseOptions()...)
			if err != nil {
				return err
			}

			encoder, err := format.NewEncoder(a.cfg.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			report := format.NewReport(name, g.Name(), pr, a.cfg.Recover)
			if err := encoder.Encode(report); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if !report.OK() {
				return errDiagnostics
			}
			return nil
		},
	}

	config.RegisterParseFlags(cmd.Flags())

	return cmd
}
