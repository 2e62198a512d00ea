package actions

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/mosaic/pkg/domain"
)

// Script is a named sequence of actions replayed against a fresh workspace.
//
//	name: two columns
//	default_tool: home
//	actions:
//	  - {op: split, path: "", axis: row, tool: query}
//	  - {op: request_focus, path: "1"}
type Script struct {
	Name        string
	DefaultTool domain.ToolKind
	Actions     []domain.Action
}

type scriptFile struct {
	Name        string           `yaml:"name"`
	DefaultTool string           `yaml:"default_tool"`
	Actions     []map[string]any `yaml:"actions"`
}

// ParseScript reads a YAML script.
func ParseScript(r io.Reader) (*Script, error) {
	var raw scriptFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return &Script{}, nil
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	script := &Script{Name: raw.Name}
	if raw.DefaultTool != "" {
		tool, err := domain.ParseToolKind(raw.DefaultTool)
		if err != nil {
			return nil, err
		}
		script.DefaultTool = tool
	}
	for i, step := range raw.Actions {
		action, err := Decode(step)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
		script.Actions = append(script.Actions, action)
	}
	return script, nil
}

// LoadScript reads a YAML script from a file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(bytes.NewReader(data))
}

// Marshal encodes the script back to YAML.
func (s *Script) Marshal() ([]byte, error) {
	raw := scriptFile{Name: s.Name, DefaultTool: string(s.DefaultTool)}
	for _, a := range s.Actions {
		raw.Actions = append(raw.Actions, Encode(a))
	}
	return yaml.Marshal(raw)
}
