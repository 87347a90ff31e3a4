package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sabarim/metaldata/internal/historical"
)

func printSummary(w io.Writer, summary historical.Summary) {
	if len(summary.Outcomes) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Symbol", "Metal", "Status", "Fresh", "Added", "Total", "Error"})
	for _, o := range summary.Outcomes {
		errText := ""
		if o.Err != nil {
			errText = o.Err.Error()
		}
		t.AppendRow(table.Row{o.Metal.Symbol, o.Metal.Name, o.Status, o.Fresh, o.Added, o.Total, errText})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
