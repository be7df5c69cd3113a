package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/halo-client/internal/constants"
)

// render writes data in the selected output format. For table output, rows
// appends the rows under header.
func render(cmd *cobra.Command, data any, header []string, rows func(table *tablewriter.Table)) error {
	out := cmd.OutOrStdout()

	switch format := viper.GetString("output"); format {
	case constants.FormatJSON:
		return renderJSON(out, data)
	case constants.FormatYAML:
		return renderYAML(out, data)
	case constants.FormatTable, "":
		columns := make([]any, len(header))
		for i, h := range header {
			columns[i] = h
		}

		table := tablewriter.NewWriter(out)
		table.Header(columns...)
		rows(table)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedFormat, format)
	}
}

func renderJSON(out io.Writer, data any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

func renderYAML(out io.Writer, data any) error {
	encoder := yaml.NewEncoder(out)
	defer func() { _ = encoder.Close() }()

	return encoder.Encode(data)
}

// cell shortens long values for table output.
func cell(value string) string {
	if value == "" {
		return "-"
	}

	if utf8.RuneCountInString(value) <= constants.MaxTableCellWidth {
		return value
	}

	runes := []rune(value)

	return string(runes[:constants.MaxTableCellWidth-3]) + "..."
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
