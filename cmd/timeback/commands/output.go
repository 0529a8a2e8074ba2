package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/timeback/internal/constants"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	OutputFormatTable = "table"
	OutputFormatJSON  = constants.FormatJSON
	OutputFormatYAML  = constants.FormatYAML
)

const (
	defaultJSONIndent = constants.JSONIndentSize
	descriptionWidth  = constants.DescriptionDisplayLength
)

// renderOutput writes data as JSON or YAML, or calls table for the default format.
func renderOutput(w io.Writer, data interface{}, table func(io.Writer) error) error {
	switch viper.GetString(KeyOutput) {
	case OutputFormatJSON:
		return renderJSON(w, data)
	case OutputFormatYAML:
		return renderYAML(w, data)
	default:
		return table(w)
	}
}

func renderJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

func renderYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultJSONIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return encoder.Close()
}

// renderTable writes rows under header, or a "No ... found" line when rows is empty.
func renderTable(w io.Writer, noun string, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintf(w, "No %s found\n", noun)

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header(toAny(header)...)

	for _, row := range rows {
		_ = table.Append(toAny(row)...)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderDetails writes a two column property table.
func renderDetails(w io.Writer, pairs [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	for _, pair := range pairs {
		_ = table.Append(pair[0], formatValue(pair[1]))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderPageFooter tells the user how to see more when a single page was shown.
func renderPageFooter(w io.Writer, shown, total int) {
	if total > shown {
		_, _ = fmt.Fprintf(w, "\nShowing %d of %d. Use --all to fetch every page.\n", shown, total)
	}
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, value := range values {
		out[i] = value
	}

	return out
}

// titleCase turns API enums such as "tobedeleted" or "student" into display text.
func titleCase(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return cases.Title(language.English).String(value)
}

func formatValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func formatRef(ref *timeback.Ref) string {
	if ref == nil || ref.SourcedID == "" {
		return constants.NotAvailable
	}

	return ref.SourcedID
}

func joinNonEmpty(values []string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if value != "" {
			parts = append(parts, value)
		}
	}

	return strings.Join(parts, ", ")
}

func truncate(value string, length int) string {
	runes := []rune(value)
	if len(runes) <= length {
		return value
	}

	return string(runes[:length-3]) + "..."
}
