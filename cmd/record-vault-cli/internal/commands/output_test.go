//go:build unit
// +build unit

package commands

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestRenderTo(t *testing.T) {
	v := sample{Name: "Acme", Count: 2}
	writeText := func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\t%d\n", v.Name, v.Count)
		return err
	}

	tests := []struct {
		name     string
		format   string
		expected string
	}{
		{"Text", formatText, "Acme  2\n"},
		{"Default", "", "Acme  2\n"},
		{"JSON", formatJSON, "{\n  \"name\": \"Acme\",\n  \"count\": 2\n}\n"},
		{"YAML", formatYAML, "name: Acme\ncount: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, renderTo(&out, tt.format, v, writeText))
			assert.Equal(t, tt.expected, out.String())
		})
	}
}

func TestRenderToUnsupportedFormat(t *testing.T) {
	var out bytes.Buffer
	err := renderTo(&out, "xml", sample{}, func(io.Writer) error { return nil })
	assert.EqualError(t, err, `unsupported output format "xml"`)
	assert.Empty(t, out.String())
}
