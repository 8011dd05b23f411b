package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/forex-warmup-bot/internal/backfill"
)

// ExcelStyles holds the workbook styles shared across sheets.
type ExcelStyles struct {
	HeaderStyle int
	BaseStyle   int
	NumberStyle int
	WarnStyle   int
}

// DefaultExcelReporter writes a backfill run to an xlsx workbook.
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteBackfillXLSX writes a two-sheet workbook: per-chunk fetch results
// and the pipeline summary.
func (r *DefaultExcelReporter) WriteBackfillXLSX(result *backfill.Result, symbol, interval, path string) error {
	// Ensure directory exists before creating file
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const chunksSheet = "Chunks"
	const summarySheet = "Summary"

	fx.SetSheetName(fx.GetSheetName(0), chunksSheet)
	fx.NewSheet(summarySheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeChunksSheet(fx, chunksSheet, result, styles); err != nil {
		return err
	}
	if err := r.writeSummarySheet(fx, summarySheet, result, symbol, interval, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	// Header style - dark background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return styles, err
	}

	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return styles, err
	}

	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    3, // #,##0
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return styles, err
	}

	// Warn style for failed chunks and incomplete warmup
	styles.WarnStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "FF0000"},
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeChunksSheet(fx *excelize.File, sheet string, result *backfill.Result, styles ExcelStyles) error {
	headers := []string{"Chunk", "Window (hours)", "End Time (UTC)", "Bars", "Elapsed (ms)", "Error"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	for row, c := range result.ChunkOutcomes {
		values := []interface{}{
			c.Sequence + 1,
			c.DurationHours,
			c.EndTime.UTC().Format("2006-01-02 15:04:05"),
			c.Bars,
			c.Elapsed.Milliseconds(),
			"",
		}
		if c.Err != nil {
			values[5] = c.Err.Error()
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			fx.SetCellValue(sheet, cell, v)
			if c.Err != nil {
				fx.SetCellStyle(sheet, cell, cell, styles.WarnStyle)
			}
		}
	}

	fx.SetColWidth(sheet, "A", "F", 20)
	return nil
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, result *backfill.Result, symbol, interval string, styles ExcelStyles) error {
	rows := [][]interface{}{
		{"Generated", time.Now().UTC().Format("2006-01-02 15:04:05")},
		{"Symbol", symbol},
		{"Interval", interval},
		{"Final State", string(result.State)},
		{"Required Bars", result.Requirement.RequiredBarCount},
		{"Coverage (hours)", result.Requirement.RequiredDurationHours},
		{"Chunks Planned", result.ChunksPlanned},
		{"Raw Bars", result.RawBars},
		{"Duplicates Removed", result.MergeStats.Duplicates},
		{"Out-of-Range Removed", result.MergeStats.OutOfRange},
		{"Aggregated Bars", result.AggregatedBars},
		{"Bars Fed", result.FedBars},
		{"Warmup Complete", result.WarmupComplete},
		{"Remaining Bars", result.RemainingBars},
		{"Estimated Wait", result.EstimatedWait.String()},
	}

	for i, row := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		fx.SetCellValue(sheet, labelCell, row[0])
		fx.SetCellValue(sheet, valueCell, row[1])
		fx.SetCellStyle(sheet, labelCell, labelCell, styles.HeaderStyle)
		fx.SetCellStyle(sheet, valueCell, valueCell, styles.BaseStyle)
	}

	if !result.WarmupComplete {
		cell, _ := excelize.CoordinatesToCellName(2, 13)
		fx.SetCellStyle(sheet, cell, cell, styles.WarnStyle)
	}

	fx.SetColWidth(sheet, "A", "A", 24)
	fx.SetColWidth(sheet, "B", "B", 30)
	return nil
}
