package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "Laporan"

	// The data table sits below the metadata title block so the title rows
	// never overlap the column headers.
	excelHeaderRow = 5
)

var excelHeaders = []string{"No", "ID Pelari", "Nama", "Pangkat", "Jarak (km)", "Waktu", "Pace", "Tanggal", "Status"}

// Excel writes the spreadsheet artifact: 4 metadata rows, a header row, then
// one row per report line. Empty datasets produce a sheet with headers only.
func (e *Exporter) Excel(w io.Writer, title string, generatedAt time.Time, period string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	meta := []interface{}{
		title,
		e.OrgLabel,
		fmt.Sprintf("%s - periode %s", generatedAt.Format("02/01/2006"), period),
		"",
	}
	for i, value := range meta {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("write metadata: %w", err)
		}
	}

	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", excelHeaderRow), &excelHeaders); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{
			row.No,
			row.RunnerID,
			row.Name,
			row.Rank,
			row.DistanceKM,
			row.TimeTaken,
			row.Pace,
			row.Date,
			row.StatusLabel,
		}
		cell := fmt.Sprintf("A%d", excelHeaderRow+1+i)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write data row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
