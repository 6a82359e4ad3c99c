// Package render composes a captured record into the text handed to the
// clipboard or stdout.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fakeyudi/cco/internal/session"
)

// Part selects which fields of a record are rendered.
type Part int

const (
	PartAll Part = iota
	PartCommand
	PartOutput
)

// Renderer serializes a record for presentation.
type Renderer interface {
	Render(rec session.Record, part Part) ([]byte, error)
}

// Formats lists the names accepted by ForFormat.
var Formats = []string{"text", "markdown", "json", "yaml"}

// ForFormat returns the renderer registered under name.
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return &TextRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "yaml", "yml":
		return &YAMLRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown format %q (supported: %s)", name, strings.Join(Formats, ", "))
}

// TextRenderer renders the command line followed by the output.
type TextRenderer struct{}

func (r *TextRenderer) Render(rec session.Record, part Part) ([]byte, error) {
	switch part {
	case PartCommand:
		return []byte(rec.Command), nil
	case PartOutput:
		return []byte(rec.Output), nil
	}
	return []byte(rec.Command + "\n" + rec.Output), nil
}

// MarkdownRenderer wraps the selection in a fenced console block, ready to
// paste into an issue or chat.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(rec session.Record, part Part) ([]byte, error) {
	var body strings.Builder
	switch part {
	case PartCommand:
		body.WriteString("$ " + rec.Command + "\n")
	case PartOutput:
		body.WriteString(rec.Output)
	default:
		body.WriteString("$ " + rec.Command + "\n")
		body.WriteString(rec.Output)
	}
	text := body.String()
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	return []byte(fence + "console\n" + text + fence + "\n"), nil
}

// selection is the structured form shared by the JSON and YAML renderers.
type selection struct {
	Command   *string `json:"command,omitempty" yaml:"command,omitempty"`
	Output    *string `json:"output,omitempty" yaml:"output,omitempty"`
	Timestamp uint64  `json:"timestamp" yaml:"timestamp"`
	SessionID string  `json:"session_id" yaml:"session_id"`
}

func selectFields(rec session.Record, part Part) selection {
	sel := selection{Timestamp: rec.Timestamp, SessionID: rec.SessionID}
	if part != PartOutput {
		sel.Command = &rec.Command
	}
	if part != PartCommand {
		sel.Output = &rec.Output
	}
	return sel
}

// JSONRenderer renders the selection as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(rec session.Record, part Part) ([]byte, error) {
	data, err := json.MarshalIndent(selectFields(rec, part), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return append(data, '\n'), nil
}

// YAMLRenderer renders the selection as YAML; multi-line output becomes a
// literal block.
type YAMLRenderer struct{}

func (r *YAMLRenderer) Render(rec session.Record, part Part) ([]byte, error) {
	data, err := yaml.Marshal(selectFields(rec, part))
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return data, nil
}
