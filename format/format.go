package format

import (
	"encoding"
	"fmt"
	"io"
	"strings"
)

// Encoder writes a parse report.
type Encoder interface {
	encoding.TextMarshaler
	Encode(r *Report) error
}

// Format names an output encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	Line Format = "line"
)

// Formats lists the supported formats.
var Formats = []Format{JSON, YAML, Line}

// ParseFormat returns the format called s, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case JSON, YAML, Line:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml or line)", s)
}

func (f Format) String() string { return string(f) }

// NewEncoder returns an encoder for f writing to w.
func NewEncoder(f Format, w io.Writer) (Encoder, error) {
	switch f {
	case JSON:
		return NewJSONEncoder(w), nil
	case YAML:
		return NewYAMLEncoder(w), nil
	case Line:
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", string(f))
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }
