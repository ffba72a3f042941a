package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Write writes output in the requested format.
//
// Supported formats:
// - table (default; values without a Table fall back to pretty JSON)
// - json
// - edn
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "table":
		if t, ok := v.(Tabler); ok {
			return WriteTable(w, t.Table())
		}
		return WriteJSON(w, v, true)
	case "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// Table is a header row plus data rows of already-formatted cells.
type Table struct {
	Headers []string
	Rows    [][]string
	// Empty is printed instead of the table when there are no rows.
	Empty string
}

// Tabler is implemented by CLI payloads that have a human-readable table form.
type Tabler interface {
	Table() Table
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func WriteTable(w io.Writer, t Table) error {
	if len(t.Rows) == 0 && t.Empty != "" {
		_, err := fmt.Fprintln(w, t.Empty)
		return err
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, tbl.String())
	return err
}
