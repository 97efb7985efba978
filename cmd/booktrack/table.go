package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column. MaxWidth wraps long cells such as book
// titles; zero leaves the column unbounded.
type column struct {
	Header   string
	Align    text.Align
	MaxWidth int
}

func left(header string) column  { return column{Header: header, Align: text.AlignLeft} }
func right(header string) column { return column{Header: header, Align: text.AlignRight} }

func wrapped(header string, width int) column {
	return column{Header: header, Align: text.AlignLeft, MaxWidth: width}
}

// renderTable draws rows with the rounded go-pretty style. Short rows are
// padded with empty cells and extra cells are dropped.
func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       col.Align,
			AlignHeader: text.AlignLeft,
			WidthMax:    col.MaxWidth,
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, cells := range rows {
		row := make(table.Row, len(columns))
		for i := range row {
			row[i] = ""
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		tw.AppendRow(row)
	}

	return tw.Render()
}
