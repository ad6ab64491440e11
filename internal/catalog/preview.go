package catalog

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pbaille/exoplot/internal/textutil"
)

// previewColumns caps the preview width; the archive returns hundreds of columns
const previewColumns = 8

// Preview prints the column names and the first n records of raw
func Preview(w io.Writer, raw *Raw, n int) {
	fmt.Fprintf(w, "Columns (%d): %s\n", len(raw.Header), strings.Join(raw.Header, ", "))

	if len(raw.Records) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	cols := len(raw.Header)
	if cols > previewColumns {
		cols = previewColumns
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, cols)
	for i := 0; i < cols; i++ {
		header[i] = raw.Header[i]
	}
	t.AppendHeader(header)

	for i, rec := range raw.Records {
		if i >= n {
			break
		}
		row := make(table.Row, cols)
		for j := 0; j < cols && j < len(rec); j++ {
			row[j] = textutil.Truncate(rec[j], 24)
		}
		t.AppendRow(row)
	}

	t.Render()
	fmt.Fprintf(w, "(%d rows x %d columns)\n", len(raw.Records), len(raw.Header))
}
