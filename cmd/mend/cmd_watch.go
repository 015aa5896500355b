package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/dhamidi/mend/config"
	"github.com/dhamidi/mend/format"
	"github.com/dhamidi/mend/workspace"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <path>...",
		Short: "Re-parse files whenever they change and report their diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws := workspace.New(".", a.fs, a.registry,
				workspace.WithGrammar(a.cfg.Grammar),
				workspace.WithParseOptions(a.parseOptions()...))

			encoder, err := format.NewEncoder(a.cfg.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			report := func(doc *workspace.Document) {
				if doc.Result == nil {
					log.Warningf("%s", doc.Err)
					return
				}
				if err := encoder.Encode(format.NewReport(doc.Path, doc.Grammar, doc.Result, a.cfg.Recover)); err != nil {
					log.Errorf("encode %s: %s", doc.Path, err)
				}
			}

			w, err := workspace.NewFileWatcher(ws,
				workspace.WithDebounce(a.cfg.Watch.Debounce),
				workspace.OnUpdate(report),
				workspace.OnRemove(func(path string) { log.Infof("removed %s", path) }))
			if err != nil {
				return err
			}
			for _, path := range args {
				if err := w.Add(path); err != nil {
					w.Stop()
					return err
				}
				if info, err := a.fs.Stat(path); err == nil && !info.IsDir() {
					if doc, _ := ws.ScanFile(path); doc != nil {
						report(doc)
					}
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			w.Start(ctx)
			<-ctx.Done()
			return w.Stop()
		},
	}

	config.RegisterParseFlags(cmd.Flags())
	cmd.Flags().Duration("debounce", workspace.DefaultDebounce, "How long file events must settle before re-parsing.")

	return cmd
}
