package config

import (
	"testing"
	"time"

	"github.com/dhamidi/mend/format"
	"github.com/dhamidi/mend/parse"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	RegisterParseFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	c, err := NewLoader(afero.NewMemMapFs()).Load(flags(t))
	require.NoError(t, err)

	assert.False(t, c.Recover)
	assert.Equal(t, format.Line, c.Format)
	assert.Empty(t, c.Grammar)
	assert.Equal(t, 100*time.Millisecond, c.Watch.Debounce)
	assert.Equal(t, 0, c.Log.Verbosity)
	assert.Equal(t, parse.DefaultMaxInserts, c.MaxInserts)
}

func TestLoad_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/mend/mend.yaml", []byte(`
recover: true
max-inserts: 8
format: YAML
grammar: json
ebnf:
  start: file
  skip: [Space, Comment]
log:
  verbosity: 2
watch:
  debounce: 250ms
`), 0o644))

	l := NewLoader(fs)
	c, err := l.Load(flags(t, "--config-path=/etc/mend"))
	require.NoError(t, err)

	assert.Equal(t, "/etc/mend/mend.yaml", l.ConfigFileUsed())
	assert.True(t, c.Recover)
	assert.Equal(t, format.YAML, c.Format)
	assert.Equal(t, "json", c.Grammar)
	assert.Equal(t, EBNF{Start: "file", Skip: []string{"Space", "Comment"}}, c.EBNF)
	assert.Equal(t, 2, c.Log.Verbosity)
	assert.Equal(t, 250*time.Millisecond, c.Watch.Debounce)
	assert.Equal(t, 8, c.MaxInserts)
}

func TestLoad_Precedence(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/mend.yaml", []byte("format: yaml\ngrammar: json\n"), 0o644))
	t.Setenv("MEND_FORMAT", "json")
	t.Setenv("MEND_GRAMMAR", "expr")

	c, err := NewLoader(fs).Load(flags(t, "--config-path=/cfg", "--grammar=yamlish", "-vv"))
	require.NoError(t, err)

	assert.Equal(t, format.JSON, c.Format)
	assert.Equal(t, "yamlish", c.Grammar)
	assert.Equal(t, 2, c.Log.Verbosity)
}

func TestLoad_BadFormat(t *testing.T) {
	t.Setenv("MEND_FORMAT", "xml")

	_, err := NewLoader(afero.NewMemMapFs()).Load(flags(t))
	assert.ErrorContains(t, err, `unknown format "xml"`)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).Load(flags(t, "--config-file=/nope/mend.yaml"))
	assert.Error(t, err)
}

func TestFormatFlag(t *testing.T) {
	fs := flags(t, "--format=json")
	assert.Equal(t, "json", fs.Lookup("format").Value.String())
	assert.Error(t, fs.Set("format", "xml"))
}
