// Package config loads modification definitions from YAML or TOML files
// and turns them into modify values
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/raymyers/glslmod/pkg/inject"
	"github.com/raymyers/glslmod/pkg/modify"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Format is a config file encoding
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Modification types
const (
	TypeInput   = "input"
	TypeSimple  = "simple"
	TypeVertex  = "vertex"
	TypeReplace = "replace"
)

// File is the root of a config file
type File struct {
	Modifications []Definition `yaml:"modifications" toml:"modifications"`
}

// Definition describes one modification and the shader it applies to
type Definition struct {
	ID       string `yaml:"id" toml:"id"`
	Shader   string `yaml:"shader" toml:"shader"`
	Type     string `yaml:"type" toml:"type"`
	Priority int    `yaml:"priority" toml:"priority"`

	// simple and vertex
	Version    int         `yaml:"version,omitempty" toml:"version,omitempty"`
	Includes   []string    `yaml:"includes,omitempty" toml:"includes,omitempty"`
	Output     string      `yaml:"output,omitempty" toml:"output,omitempty"`
	Uniform    string      `yaml:"uniform,omitempty" toml:"uniform,omitempty"`
	Functions  []Function  `yaml:"functions,omitempty" toml:"functions,omitempty"`
	Attributes []Attribute `yaml:"attributes,omitempty" toml:"attributes,omitempty"`

	// replace
	Target string `yaml:"target,omitempty" toml:"target,omitempty"`

	// input
	Source string        `yaml:"source,omitempty" toml:"source,omitempty"`
	Point  *inject.Point `yaml:"point,omitempty" toml:"point,omitempty"`
}

// Function is a function edit. A nil Params, or -1, matches any parameter
// count.
type Function struct {
	Name   string `yaml:"name" toml:"name"`
	Params *int   `yaml:"params,omitempty" toml:"params,omitempty"`
	Head   bool   `yaml:"head,omitempty" toml:"head,omitempty"`
	Code   string `yaml:"code" toml:"code"`
}

// Attribute is an expected vertex input
type Attribute struct {
	Index int    `yaml:"index" toml:"index"`
	Type  string `yaml:"type" toml:"type"`
	Name  string `yaml:"name" toml:"name"`
}

// ValidationError reports a problem with one definition
type ValidationError struct {
	Index int
	ID    string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("modifications[%d]: %s", e.Index, e.Msg)
	}
	return fmt.Sprintf("modifications[%d] (%s): %s", e.Index, e.ID, e.Msg)
}

// FormatOf picks the format from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
}

// Load reads and validates the config file at path
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Decode(data, format)
}

// Decode parses and validates a config document. Unknown keys are errors.
func Decode(data []byte, format Format) (*File, error) {
	var f File
	var err error
	switch format {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&f); errors.Is(err, io.EOF) {
			err = nil
		}
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every definition and returns all problems combined
func (f *File) Validate() error {
	var err error
	ids := make(map[string]bool)
	for i, d := range f.Modifications {
		fail := func(format string, args ...any) {
			err = multierr.Append(err, &ValidationError{Index: i, ID: d.ID, Msg: fmt.Sprintf(format, args...)})
		}

		if d.ID == "" {
			fail("missing id")
		}
		if d.Shader == "" {
			fail("missing shader")
		}
		if d.ID != "" && d.Shader != "" {
			key := d.Shader + "\x00" + d.ID
			if ids[key] {
				fail("duplicate id for shader %s", d.Shader)
			}
			ids[key] = true
		}

		switch d.Type {
		case TypeInput:
			if d.Source == "" {
				fail("input requires a source")
			}
		case TypeReplace:
			if d.Target == "" {
				fail("replace requires a target")
			}
		case TypeSimple, TypeVertex:
		default:
			fail("unknown type %q", d.Type)
		}
		if d.Type != TypeInput && d.Point != nil {
			fail("point is only valid for input modifications")
		}
		if d.Type != TypeVertex && len(d.Attributes) > 0 {
			fail("attributes are only valid for vertex modifications")
		}

		for j, fn := range d.Functions {
			if fn.Name == "" {
				fail("functions[%d]: missing name", j)
			}
			if fn.Params != nil && *fn.Params < modify.AnyParams {
				fail("functions[%d]: invalid parameter count %d", j, *fn.Params)
			}
		}

		slots := make(map[int]bool)
		for j, a := range d.Attributes {
			if a.Index < 0 {
				fail("attributes[%d]: invalid index %d", j, a.Index)
			}
			if a.Type == "" || a.Name == "" {
				fail("attributes[%d]: type and name are required", j)
			}
			if slots[a.Index] {
				fail("attributes[%d]: duplicate index %d", j, a.Index)
			}
			slots[a.Index] = true
		}
	}
	return err
}

// Modification builds the modification a definition describes. The
// definition is assumed valid.
func (d Definition) Modification() modify.Modification {
	base := modify.Base{Name: d.ID, Order: d.Priority}
	switch d.Type {
	case TypeInput:
		return &modify.Input{Base: base, Source: d.Source, Point: d.Point}
	case TypeReplace:
		return &modify.Replace{Base: base, Target: d.Target}
	}

	simple := modify.Simple{
		Base:     base,
		Version:  d.Version,
		Includes: d.Includes,
		Output:   d.Output,
		Uniform:  d.Uniform,
	}
	for _, fn := range d.Functions {
		params := modify.AnyParams
		if fn.Params != nil {
			params = *fn.Params
		}
		simple.Functions = append(simple.Functions, modify.FunctionEdit{
			Name:   fn.Name,
			Params: params,
			Head:   fn.Head,
			Code:   fn.Code,
		})
	}
	if d.Type != TypeVertex {
		return &simple
	}

	vertex := &modify.Vertex{Simple: simple}
	for _, a := range d.Attributes {
		vertex.Attributes = append(vertex.Attributes, modify.Attribute{Index: a.Index, Type: a.Type, Name: a.Name})
	}
	return vertex
}

// Entries returns the definitions as manager entries, in file order
func (f *File) Entries() []modify.Entry {
	entries := make([]modify.Entry, len(f.Modifications))
	for i, d := range f.Modifications {
		entries[i] = modify.Entry{ShaderID: d.Shader, Modification: d.Modification()}
	}
	return entries
}

// Register adds every definition to m
func (f *File) Register(m *modify.Manager) error {
	return m.RegisterAll(f.Entries())
}
