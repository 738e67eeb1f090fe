package output

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable prints a table of audit or asset rows to stdout.
func RenderTable(headers []string, rows [][]interface{}) {
	RenderTableTo(os.Stdout, headers, rows)
}

// RenderTableTo writes the table to w.
func RenderTableTo(w io.Writer, headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	t.Render()
}
