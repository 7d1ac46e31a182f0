package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var exportRows = []Row{
	{No: 1, RunnerID: "R1", Name: "Budi Santoso", Rank: "Sertu", DistanceKM: 14.2, TimeTaken: "1:10:30", Pace: `4'58"/km`, Date: "25 Agu 2026", StatusLabel: "Tervalidasi"},
	{No: 2, RunnerID: "R2", Name: "Siti Rahma", Rank: "Kopda", DistanceKM: 14.0, TimeTaken: "1:12:00", Pace: `5'09"/km`, Date: "24 Agu 2026", StatusLabel: "Pending"},
}

func TestPDFExport(t *testing.T) {
	exporter := NewExporter("SISFORUN - Admin Panel")

	var buf bytes.Buffer
	err := exporter.PDF(&buf, TypeFourteen.Title(), time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC), exportRows)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(buf.String(), "%PDF"), "output must be a PDF document")
}

func TestPDFExportEmptyRowsStillRenders(t *testing.T) {
	exporter := NewExporter("SISFORUN - Admin Panel")

	var buf bytes.Buffer
	err := exporter.PDF(&buf, TypeActive.Title(), time.Now(), nil)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestExcelExportLayout(t *testing.T) {
	exporter := NewExporter("SISFORUN - Admin Panel")

	var buf bytes.Buffer
	err := exporter.Excel(&buf, TypeFourteen.Title(), time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC), "all", exportRows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	require.Equal(t, "Laporan Khusus Target 14 KM", title)

	org, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	require.Equal(t, "SISFORUN - Admin Panel", org)

	// The header row sits below the metadata block, never overlapping it.
	header, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	require.Equal(t, "No", header)

	firstName, err := f.GetCellValue(sheetName, "C6")
	require.NoError(t, err)
	require.Equal(t, "Budi Santoso", firstName)

	secondStatus, err := f.GetCellValue(sheetName, "I7")
	require.NoError(t, err)
	require.Equal(t, "Pending", secondStatus)
}

func TestExcelExportEmptyRowsStillRenders(t *testing.T) {
	exporter := NewExporter("SISFORUN - Admin Panel")

	var buf bytes.Buffer
	err := exporter.Excel(&buf, TypeTarget.Title(), time.Now(), "today", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A5")
	require.NoError(t, err)
	require.Equal(t, "No", header)

	body, err := f.GetCellValue(sheetName, "A6")
	require.NoError(t, err)
	require.Empty(t, body)
}
