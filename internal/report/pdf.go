package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders rep as an A4 document.
func WritePDF(w io.Writer, rep Report, l Labels) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(rep.Record.Title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(l.Heading+": "+rep.Record.Title))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{l.Student, fmt.Sprintf("%s <%s>", rep.StudentName, rep.StudentEmail)},
		{l.Completed, rep.Record.CompletedAt.Format(dateLayout)},
		{l.Score, fmt.Sprintf("%d / %d (%d%%)", rep.Record.Score, rep.Record.MaxScore, rep.Record.Percentage())},
		{l.Band, rep.BandLabel},
	}
	for _, r := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 7, tr(r[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, tr(r[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr(l.Recommendation))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, tr(rep.Recommendation), "", "L", false)
	pdf.Ln(6)

	if len(rep.Record.Responses) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 240, 235)
		pdf.CellFormat(110, 7, tr(l.Question), "1", 0, "L", true, 0, "")
		pdf.CellFormat(55, 7, tr(l.Answer), "1", 0, "L", true, 0, "")
		pdf.CellFormat(0, 7, tr(l.Points), "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, a := range rep.Record.Responses {
			pdf.CellFormat(110, 7, tr(truncate(a.Question, 60)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(55, 7, tr(a.Answer), "1", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, fmt.Sprint(a.Score), "1", 1, "C", false, 0, "")
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(0, 5, rep.GeneratedAt.Format(dateLayout))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
