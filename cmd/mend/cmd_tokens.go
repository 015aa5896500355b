package main

import (
	"fmt"

	"github.com/dhamidi/mend/config"
	"github.com/dhamidi/mend/grammar"
	"github.com/spf13/cobra"
)

func newTokensCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of a file, one per line",
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
			tz, ok := g.(grammar.Tokenizer)
			if !ok {
				return fmt.Errorf("grammar %s parses text directly and has no tokens", g.Name())
			}
			l := tz.Lexer()
			if strict {
				l = l.Strict()
			}
			toks, err := l.Tokenize(name, src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, tok := range toks {
				fmt.Fprintf(out, "%s\t%s\t%q\n", tok.Start, tok.Kind, tok.Value)
			}
			return nil
		},
	}

	config.RegisterParseFlags(cmd.Flags())
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on input no token rule matches instead of printing ERROR tokens.")

	return cmd
}
