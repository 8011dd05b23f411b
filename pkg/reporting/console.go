package reporting

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/forex-warmup-bot/internal/backfill"
)

// DefaultConsoleReporter prints backfill runs as rounded tables.
type DefaultConsoleReporter struct{}

// NewDefaultConsoleReporter creates a new console reporter
func NewDefaultConsoleReporter() *DefaultConsoleReporter {
	return &DefaultConsoleReporter{}
}

// PrintRunConfig prints the run parameters before the backfill starts.
func (r *DefaultConsoleReporter) PrintRunConfig(symbol, venue, interval, provider string, slowPeriod int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("WARMUP BACKFILL")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📊 Symbol", symbol},
		{"🏪 Venue", venue},
		{"⏰ Interval", interval},
		{"🔌 Provider", provider},
		{"📐 Slow Period", slowPeriod},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 15, WidthMax: 15, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintBackfillSummary prints the pipeline outcome after the run.
func (r *DefaultConsoleReporter) PrintBackfillSummary(result *backfill.Result, interval string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BACKFILL SUMMARY")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"🏁 Final State", string(result.State)},
		{"📐 Required Bars", fmt.Sprintf("%d x %s", result.Requirement.RequiredBarCount, interval)},
		{"🕐 Coverage", fmt.Sprintf("%.1f hours", result.Requirement.RequiredDurationHours)},
		{"📦 Chunks Planned", result.ChunksPlanned},
		{"📥 Raw Bars", result.RawBars},
		{"♻️ Duplicates Removed", result.MergeStats.Duplicates},
		{"🚮 Out-of-Range Removed", result.MergeStats.OutOfRange},
		{"📊 Aggregated Bars", result.AggregatedBars},
		{"🍽 Bars Fed", result.FedBars},
	})

	t.AppendSeparator()
	if result.WarmupComplete {
		t.AppendRow(table.Row{"✅ Warmup", "COMPLETE"})
	} else {
		t.AppendRows([]table.Row{
			{"⚠️ Warmup", "INCOMPLETE"},
			{"⏳ Remaining Bars", result.RemainingBars},
			{"⏳ Estimated Wait", result.EstimatedWait.Round(time.Minute)},
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 24, WidthMax: 24, Align: text.AlignLeft},
		{Number: 2, WidthMin: 20, WidthMax: 40, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Println()
}

// PrintChunkTable prints the per-chunk fetch outcomes, oldest first.
func (r *DefaultConsoleReporter) PrintChunkTable(outcomes []backfill.ChunkOutcome) {
	if len(outcomes) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("CHUNK RESULTS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Window", "End Time (UTC)", "Bars", "Elapsed", "Status"})

	for _, c := range outcomes {
		status := "✅ ok"
		if c.Err != nil {
			status = fmt.Sprintf("❌ %v", c.Err)
		}
		t.AppendRow(table.Row{
			c.Sequence + 1,
			fmt.Sprintf("%.1fh", c.DurationHours),
			c.EndTime.UTC().Format("2006-01-02 15:04:05"),
			c.Bars,
			c.Elapsed.Round(time.Millisecond),
			status,
		})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	t.Render()
	fmt.Println()
}
