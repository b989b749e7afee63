// Package pdfgen renders a bill summary PDF with the generated arguments.
package pdfgen

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Details holds everything rendered into the summary PDF.
type Details struct {
	Title     string
	GovID     string
	SourceURL string
	Summary   string
	Pros      string
	Cons      string
}

// CreateSummaryPDF writes a one-page summary document for a bill.
func CreateSummaryPDF(d Details, outPath string) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, d.Title, "", "C", false)
	pdf.Ln(4)

	// Details table
	rows := [][2]string{
		{"Title", d.Title},
		{"Government ID", d.GovID},
		{"Source", d.SourceURL},
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	pdf.CellFormat(40, 8, "Field", "1", 0, "C", true, 0, "")
	pdf.CellFormat(150, 8, "Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.CellFormat(40, 8, row[0], "1", 0, "C", true, 0, "")
		pdf.CellFormat(150, 8, row[1], "1", 1, "L", true, 0, "")
	}
	pdf.Ln(6)

	section := func(heading, body string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, heading, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, body, "", "L", false)
		pdf.Ln(3)
	}
	if d.Summary != "" {
		section("Summary", d.Summary)
	}
	section("Pros:", d.Pros)
	section("Cons:", d.Cons)

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("writing summary PDF: %w", err)
	}
	return nil
}
