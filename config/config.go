// Package config loads mend settings from a config file, MEND_
// environment variables and command line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/dhamidi/mend/format"
	"github.com/dhamidi/mend/parse"
	"github.com/dhamidi/mend/workspace"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Recover    bool          `mapstructure:"recover"`
	MaxInserts int           `mapstructure:"max-inserts"`
	Format     format.Format `mapstructure:"format"`
	Grammar    string        `mapstructure:"grammar"`
	EBNF       EBNF          `mapstructure:"ebnf"`
	Log        Log           `mapstructure:"log"`
	Watch      Watch         `mapstructure:"watch"`
}

// EBNF configures grammars loaded from EBNF files.
type EBNF struct {
	File  string   `mapstructure:"file"`
	Start string   `mapstructure:"start"`
	Skip  []string `mapstructure:"skip"`
}

type Log struct {
	Verbosity int    `mapstructure:"verbosity"`
	File      string `mapstructure:"file"`
}

type Watch struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Flag names bound to config keys.
var flagKeys = map[string]string{
	"recover":     "recover",
	"max-inserts": "max-inserts",
	"format":      "format",
	"grammar":     "grammar",
	"ebnf":        "ebnf.file",
	"start":       "ebnf.start",
	"skip":        "ebnf.skip",
	"verbose":     "log.verbosity",
	"log-file":    "log.file",
	"debounce":    "watch.debounce",
}

// RegisterFlags installs the config file flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringSlice("config-path", []string{"."}, "Paths to search for a mend config file in.")
	fs.String("config-file", "", "Full path of the config file to use. If set, --config-path is ignored.")
	fs.CountP("verbose", "v", "Log more; repeat for more detail.")
	fs.String("log-file", "", "Write logs to this file instead of stderr.")
}

// RegisterParseFlags installs the flags that control parsing on fs.
func RegisterParseFlags(fs *pflag.FlagSet) {
	f := format.Line
	fs.Bool("recover", false, "Report the repaired value of inputs that needed recovery.")
	fs.Int("max-inserts", parse.DefaultMaxInserts, "How many insertions may stack at one position during recovery.")
	fs.Var(&f, "format", "Output format (json, yaml or line).")
	fs.String("grammar", "", "Grammar to parse with; by default chosen by file extension.")
	fs.String("ebnf", "", "EBNF grammar file to parse with.")
	fs.String("start", "", "Start production of an EBNF grammar.")
	fs.StringSlice("skip", nil, "Token productions of an EBNF grammar to skip.")
}

// Loader reads configuration through its own viper instance.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader reading config files from fs.
func NewLoader(fs afero.Fs) *Loader {
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix("MEND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("recover", false)
	v.SetDefault("max-inserts", parse.DefaultMaxInserts)
	v.SetDefault("format", string(format.Line))
	v.SetDefault("grammar", "")
	v.SetDefault("ebnf.file", "")
	v.SetDefault("ebnf.start", "")
	v.SetDefault("ebnf.skip", []string{})
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.file", "")
	v.SetDefault("watch.debounce", workspace.DefaultDebounce)
	return &Loader{v: v}
}

// Load binds the flags of fs that name config keys, reads the config
// file and decodes the result. A missing config file is not an error.
func (l *Loader) Load(fs *pflag.FlagSet) (*Config, error) {
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := l.v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var err error
	file, _ := fs.GetString("config-file")
	switch file {
	case "":
		l.v.SetConfigName("mend")
		paths, _ := fs.GetStringSlice("config-path")
		for _, p := range paths {
			l.v.AddConfigPath(p)
		}
		err = l.v.ReadInConfig()
	default:
		l.v.SetConfigFile(file)
		err = l.v.ReadInConfig()
	}
	if err != nil && !(file == "" && isConfigFileNotFoundError(err)) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	hook := mapstructure.ComposeDecodeHookFunc(
		decodeFormat,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := l.v.Unmarshal(&c, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

// ConfigFileUsed returns the path of the config file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func decodeFormat(from, to reflect.Type, data any) (any, error) {
	var f format.Format
	if to != reflect.TypeOf(f) {
		return data, nil
	}

	switch {
	case from == reflect.TypeOf(f):
		return data.(format.Format), nil
	case from.Kind() == reflect.String:
		if err := f.Set(reflect.ValueOf(data).String()); err != nil {
			return f, err
		}
		return f, nil
	}

	return data, fmt.Errorf("invalid value for format: %v", data)
}

// isConfigFileNotFoundError checks if the error is caused because the file wasn't found.
func isConfigFileNotFoundError(err error) bool {
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return true
	}
	return errors.Is(err, os.ErrNotExist)
}
