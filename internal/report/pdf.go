package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// Columns of the printed table, in order. Widths are millimetres on a
// landscape A4 page.
var pdfColumns = []struct {
	Header string
	Width  float64
	Align  string
}{
	{"No", 12, "C"},
	{"ID Pelari", 48, "L"},
	{"Nama", 52, "L"},
	{"Pangkat", 30, "L"},
	{"Jarak (km)", 24, "R"},
	{"Waktu", 24, "C"},
	{"Pace", 26, "C"},
	{"Tanggal", 28, "C"},
	{"Status", 28, "C"},
}

// Exporter renders report rows into downloadable artifacts.
type Exporter struct {
	// OrgLabel is the organizational line printed under the report title.
	OrgLabel string
}

// NewExporter builds an Exporter.
func NewExporter(orgLabel string) *Exporter {
	return &Exporter{OrgLabel: orgLabel}
}

// PDF writes a paginated tabular document. An empty row set still produces a
// well-formed document with a placeholder body.
func (e *Exporter) PDF(w io.Writer, title string, generatedAt time.Time, rows []Row) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, e.OrgLabel, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, generatedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 8)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.Width, 7, col.Header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	if len(rows) == 0 {
		var width float64
		for _, col := range pdfColumns {
			width += col.Width
		}
		pdf.CellFormat(width, 7, "Tidak ada data.", "1", 1, "C", false, 0, "")
	}

	for _, row := range rows {
		cells := []string{
			fmt.Sprintf("%d", row.No),
			row.RunnerID,
			row.Name,
			row.Rank,
			formatDistance(row.DistanceKM),
			row.TimeTaken,
			row.Pace,
			row.Date,
			row.StatusLabel,
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.Width, 6, cells[i], "1", 0, col.Align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func formatDistance(km float64) string {
	if km == float64(int64(km)) {
		return fmt.Sprintf("%d", int64(km))
	}
	return fmt.Sprintf("%.2f", km)
}
