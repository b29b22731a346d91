// Package report renders run summaries for terminals.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bft-labs/ringwalk/internal/domain"
)

// Render writes the summary as a per-worker table followed by a totals footer.
func Render(w io.Writer, s domain.Summary) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(fmt.Sprintf("domain %d  max walk %d  walkers/worker %d  rounds %d  seed %d",
		s.DomainSize, s.MaxWalkSize, s.WalkersPerWorker, s.Rounds, s.Seed))

	tw.AppendHeader(table.Row{"Worker", "Subdomain", "Initiated", "Sent", "Received", "Completed", "Stranded"})
	sent, received := 0, 0
	for _, ws := range s.PerWorker {
		tw.AppendRow(table.Row{ws.Worker, ws.Subdomain.String(), ws.Initiated, ws.Sent, ws.Received, ws.Completed, ws.Stranded})
		sent += ws.Sent
		received += ws.Received
	}
	tw.AppendFooter(table.Row{"Total", "", s.Total, sent, received, s.Completed, s.Stranded})

	right := make([]table.ColumnConfig, 0, 5)
	for col := 3; col <= 7; col++ {
		right = append(right, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(right)

	_, err := fmt.Fprintln(w, tw.Render())
	return err
}
