// Package formatter renders run summaries as markdown tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"newsfetch/internal/models"
)

// minColumnWidth matches the shortest valid separator ("---").
const minColumnWidth = 3

// FormatTable renders headers and rows as an aligned markdown table. Columns
// are padded by display width so wide characters line up. Rows shorter than
// the header are padded with empty cells.
func FormatTable(headers []string, rows [][]string) string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	// 1. Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	measure := func(row []string) {
		for i := 0; i < len(row); i++ {
			if width := runewidth.StringWidth(cleanCell(row[i])); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	measure(headers)

	for _, row := range rows {
		measure(row)
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	// 2. Reconstruct lines
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, renderRow(headers, colWidths))
	lines = append(lines, renderSeparator(colWidths))

	for _, row := range rows {
		lines = append(lines, renderRow(row, colWidths))
	}

	return strings.Join(lines, "\n")
}

// cleanCell keeps a cell on one line and escapes pipes.
func cleanCell(cell string) string {
	cell = strings.Join(strings.Fields(cell), " ")
	return strings.ReplaceAll(cell, "|", `\|`)
}

func renderRow(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		content := ""
		if j < len(row) {
			content = cleanCell(row[j])
		}

		sb.WriteString(" ")
		sb.WriteString(content)

		// Pad with spaces based on display width
		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func renderSeparator(colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for _, width := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	return sb.String()
}

// StatusTable renders the per-symbol summary of a run.
func StatusTable(statuses []models.SymbolStatus) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		rows = append(rows, []string{s.Symbol, s.Count()})
	}

	return FormatTable([]string{"Symbol", "Articles"}, rows)
}

// Truncate shortens s to at most width display columns, ending in "...".
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}
