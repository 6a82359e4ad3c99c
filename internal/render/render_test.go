package render_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/fakeyudi/cco/internal/render"
	"github.com/fakeyudi/cco/internal/session"
)

var sample = session.Record{
	Command:   "ls -la",
	Output:    "total 0\nfile\n",
	Timestamp: 1700000000,
	SessionID: "session_1_pts_0",
}

func TestTextRendererParts(t *testing.T) {
	r := &render.TextRenderer{}

	all, err := r.Render(sample, render.PartAll)
	require.NoError(t, err)
	assert.Equal(t, "ls -la\ntotal 0\nfile\n", string(all))

	cmd, err := r.Render(sample, render.PartCommand)
	require.NoError(t, err)
	assert.Equal(t, "ls -la", string(cmd))

	out, err := r.Render(sample, render.PartOutput)
	require.NoError(t, err)
	assert.Equal(t, "total 0\nfile\n", string(out))
}

// Feature: cco, Property: full text is command, newline, output
func TestTextRendererComposition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rec := session.Record{
			Command: rapid.String().Draw(t, "command"),
			Output:  rapid.String().Draw(t, "output"),
		}
		got, err := (&render.TextRenderer{}).Render(rec, render.PartAll)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != rec.Command+"\n"+rec.Output {
			t.Fatalf("unexpected composition %q", got)
		}
	})
}

func TestMarkdownRenderer(t *testing.T) {
	got, err := (&render.MarkdownRenderer{}).Render(sample, render.PartAll)
	require.NoError(t, err)
	assert.Equal(t, "```console\n$ ls -la\ntotal 0\nfile\n```\n", string(got))
}

func TestMarkdownRendererEscalatesFence(t *testing.T) {
	rec := sample
	rec.Output = "```go\nfmt.Println()\n```"
	got, err := (&render.MarkdownRenderer{}).Render(rec, render.PartOutput)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "````console\n"), "fence should grow: %s", got)
	assert.True(t, strings.HasSuffix(string(got), "\n````\n"))
}

func TestJSONRendererOmitsUnselected(t *testing.T) {
	got, err := (&render.JSONRenderer{}).Render(sample, render.PartCommand)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(got, &m))
	assert.Equal(t, "ls -la", m["command"])
	assert.NotContains(t, m, "output")
	assert.Equal(t, "session_1_pts_0", m["session_id"])
}

func TestYAMLRendererRoundTrips(t *testing.T) {
	got, err := (&render.YAMLRenderer{}).Render(sample, render.PartAll)
	require.NoError(t, err)

	var back struct {
		Command   string `yaml:"command"`
		Output    string `yaml:"output"`
		Timestamp uint64 `yaml:"timestamp"`
	}
	require.NoError(t, yaml.Unmarshal(got, &back))
	assert.Equal(t, sample.Command, back.Command)
	assert.Equal(t, sample.Output, back.Output)
	assert.Equal(t, sample.Timestamp, back.Timestamp)
}

func TestForFormat(t *testing.T) {
	for _, name := range append(render.Formats, "", "MD", "yml") {
		_, err := render.ForFormat(name)
		assert.NoError(t, err, name)
	}
	_, err := render.ForFormat("xml")
	assert.Error(t, err)
}
