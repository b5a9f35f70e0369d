package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// render writes v to the command output in the --format of cmd; text uses writeText
func render(cmd *cobra.Command, v interface{}, writeText func(w io.Writer) error) error {
	format, err := cmd.Flags().GetString(flagFormat)
	if err != nil {
		format = formatText
	}
	return renderTo(cmd.OutOrStdout(), format, v, writeText)
}

func renderTo(out io.Writer, format string, v interface{}, writeText func(w io.Writer) error) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case formatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	case formatText, "":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		if err := writeText(tw); err != nil {
			return err
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
