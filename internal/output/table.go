package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Table provides table rendering utilities
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
	quiet  bool
}

// NewTable creates a borderless table writing to w. A quiet table
// renders nothing.
func NewTable(w io.Writer, headers []string, quiet bool) *Table {
	return &Table{
		table:  newWriter(w, tw.Off),
		header: headers,
		quiet:  quiet,
	}
}

func newWriter(w io.Writer, headerSeparator tw.State) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: headerSeparator,
				},
			},
		}),
	)
}

// AddRow adds a row to the table
func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// Render outputs the table
func (t *Table) Render() {
	if t.quiet {
		return
	}
	t.table.Header(t.header)
	t.table.Bulk(t.rows)
	t.table.Render()
}

// RenderRecord writes a single labeled record: a title header followed by
// one label/value row per pair
func RenderRecord(w io.Writer, title string, pairs [][]string) error {
	table := newWriter(w, tw.On)

	table.Header(title, "")
	if err := table.Bulk(pairs); err != nil {
		return err
	}
	return table.Render()
}
