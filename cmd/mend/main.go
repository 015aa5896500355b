package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/mend/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mend",
		Short:         "Parse files with error recovery and report the repairs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

func main() {
	rootCmd := newRootCmd(&app{fs: afero.NewOsFs()})
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
