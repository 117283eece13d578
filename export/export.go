/*
Package export renders hours reports as CSV and XLSX.

REPORTS:
  Summary: one row per employee for a range
    Employee ID, Name, From, To, Worked, Expected, Balance
  Daily: one row per employee per day
    Employee ID, Name, Date, Weekday, Punches, Worked, Expected

  Durations are HH:MM; Balance carries a leading "-" when short.

CSV:
  Fields containing commas are quoted, internal quotes doubled.

XLSX:
  Same rows on a single sheet, header row bold.
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/warp/punchclock/hours"
	"github.com/warp/punchclock/punch"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" and "xlsx".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// =============================================================================
// ROWS
// =============================================================================

var (
	SummaryHeader = []string{"Employee ID", "Name", "From", "To", "Worked", "Expected", "Balance"}
	DailyHeader   = []string{"Employee ID", "Name", "Date", "Weekday", "Punches", "Worked", "Expected"}
)

// SummaryRows builds the summary report including its header.
func SummaryRows(summaries []hours.Summary) [][]string {
	rows := [][]string{SummaryHeader}
	for _, s := range summaries {
		rows = append(rows, []string{
			s.EmployeeID,
			s.Name,
			s.Range.Start.Key(),
			s.Range.End.Key(),
			punch.SecondsToHHMM(s.WorkedSeconds),
			punch.SecondsToHHMM(s.ExpectedSeconds),
			punch.FormatSignedHHMM(s.BalanceSeconds()),
		})
	}
	return rows
}

// DailyRows builds the daily report for every employee in db over r.
func DailyRows(calc hours.Calculator, db punch.Database, r hours.Range) [][]string {
	rows := [][]string{DailyHeader}
	for _, id := range db.IDs() {
		rec := db[id]
		for _, d := range calc.Daily(rec, r) {
			rows = append(rows, []string{
				id,
				rec.Name,
				d.Day.Key(),
				d.Day.Weekday().String(),
				d.PairsText(),
				punch.SecondsToHHMM(d.WorkedSeconds),
				punch.SecondsToHHMM(d.ExpectedSeconds),
			})
		}
	}
	return rows
}

// =============================================================================
// WRITERS
// =============================================================================

// Write encodes rows to w in format f.
func Write(w io.Writer, f Format, rows [][]string) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return WriteCSV(w, rows)
	}
}

// WriteCSV writes rows as CSV.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

const sheetName = "Report"

// WriteXLSX writes rows to a single-sheet workbook.
func WriteXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
