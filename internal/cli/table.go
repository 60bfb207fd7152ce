package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

func renderTable(out io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()
}

func emitHints(out io.Writer, hints []string) {
	for _, hint := range hints {
		_, _ = io.WriteString(out, hint+"\n")
	}
}
