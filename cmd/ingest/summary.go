package ingest

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/ingest"
)

// RenderSummary writes a per-entry table of s to w.
func RenderSummary(w io.Writer, s ingest.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Run %s: %s", s.RunID, s.Archive))

	t.AppendHeader(table.Row{"Entry", "Records", "Indexed", "Failed", "Parse error"})
	for _, e := range s.Entries {
		t.AppendRow(table.Row{e.Name, e.Records, e.Indexed, e.Failed, e.ParseError})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d entries", len(s.Entries)),
		s.Records,
		s.Indexed,
		s.Failed,
		fmt.Sprintf("%d", s.ParseErrors),
	})
	t.SetCaption("took %s", s.Duration.Round(time.Millisecond))

	t.Render()
}
