package main

import (
	"github.com/dhamidi/mend/config"
	"github.com/dhamidi/mend/lsp"
	"github.com/dhamidi/mend/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newLSPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewLSPServer(version, a.fs, func(rootDir string, fs afero.Fs) *workspace.Workspace {
				return workspace.New(rootDir, fs, a.registry,
					workspace.WithGrammar(a.cfg.Grammar),
					workspace.WithParseOptions(a.parseOptions()...))
			})
			return server.RunStdio()
		},
	}

	config.RegisterParseFlags(cmd.Flags())

	return cmd
}
