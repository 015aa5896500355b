package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dhamidi/mend/config"
	"github.com/dhamidi/mend/ebnf"
	"github.com/dhamidi/mend/grammar"
	"github.com/dhamidi/mend/parse"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mend.cmd")

// errDiagnostics is returned by commands that already reported what went
// wrong; main only sets the exit status.
var errDiagnostics = errors.New("diagnostics reported")

type app struct {
	fs       afero.Fs
	cfg      *config.Config
	registry *grammar.Registry
}

func (a *app) load(cmd *cobra.Command) error {
	l := config.NewLoader(a.fs)
	cfg, err := l.Load(cmd.Flags())
	if err != nil {
		return err
	}

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)
	if used := l.ConfigFileUsed(); used != "" {
		log.Debugf("config: %s", used)
	}

	a.registry = grammar.Builtin()
	if file := cfg.EBNF.File; file != "" {
		g, err := a.loadEBNF(file, cfg.EBNF.Start, cfg.EBNF.Skip)
		if err != nil {
			printErrors(cmd.ErrOrStderr(), err)
			return errDiagnostics
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		a.registry.Register(grammar.FromEBNF(name, g))
		if cfg.Grammar == "" {
			cfg.Grammar = name
		}
	}
	a.cfg = cfg
	return nil
}

func (a *app) loadEBNF(file, start string, skip []string) (*ebnf.Grammar, error) {
	f, err := a.fs.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return ebnf.Load(file, f, start, skip...)
}

func (a *app) parseOptions() []parse.Option {
	return []parse.Option{
		parse.WithRecover(a.cfg.Recover),
		parse.WithMaxInserts(a.cfg.MaxInserts),
	}
}

// readInput reads the file named by args, or standard input when there
// is none or it is "-".
func (a *app) readInput(cmd *cobra.Command, args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", src, nil
	}
	src, err := afero.ReadFile(a.fs, args[0])
	if err != nil {
		return "", nil, fmt.Errorf("read file: %w", err)
	}
	return args[0], src, nil
}

func printErrors(w io.Writer, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			printErrors(w, e)
		}
		return
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(w, err)
	}
}
