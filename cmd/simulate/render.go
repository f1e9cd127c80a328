package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used for terminal output.
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	styleCount = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleFaint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// maxPrintedRows caps per-roll tables; aggregate tables print in full.
const maxPrintedRows = 25

// truncateRows returns at most maxPrintedRows rows and the omitted count.
func truncateRows(rows [][]string) ([][]string, int) {
	if len(rows) <= maxPrintedRows {
		return rows, 0
	}
	return rows[:maxPrintedRows], len(rows) - maxPrintedRows
}

// renderTable renders a titled, column-aligned table. Cell values are padded
// to the widest entry in each column.
func renderTable(title string, headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(styleTitle.Render(title))
	sb.WriteByte('\n')

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = pad(h, widths[i])
	}
	sb.WriteString(styleHeader.Render(strings.Join(cells, "  ")))
	sb.WriteByte('\n')

	for _, row := range rows {
		line := make([]string, len(row))
		for i, cell := range row {
			line[i] = pad(cell, widths[i])
		}
		sb.WriteString(strings.Join(line, "  "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
