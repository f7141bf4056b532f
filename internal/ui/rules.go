package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/z77ma/aspnetcore/internal/config"
	"github.com/z77ma/aspnetcore/internal/diag"
)

// RenderRules writes the rule descriptors as a table, or as json or yaml.
func RenderRules(w io.Writer, descs []diag.Descriptor, format string, color bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(descs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(descs); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
	default:
		return fmt.Errorf("%w: %q", config.ErrUnsupportedFormat, format)
	}

	rows := make([][]string, 0, len(descs))
	for _, d := range descs {
		rows = append(rows, []string{d.ID, d.DefaultSeverity.String(), d.Category, d.Title})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Severity", "Category", "Title").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if color && row == table.HeaderRow {
				return style.Bold(true).Foreground(lipgloss.Color("42"))
			}
			return style
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}
