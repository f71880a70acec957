package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 6.0
)

// WritePDF renders the document as a landscape A4 PDF.
func WritePDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.TitleText(), true)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(usable, pdfLineHeight+2, tr(doc.TitleText()), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, t := range doc.Tables {
		widths := columnWidths(t, usable)
		if t.Caption != "" {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(usable, pdfLineHeight, tr(t.Caption), "", 1, "L", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(220, 220, 220)
		for i, h := range t.Header {
			pdf.CellFormat(widths[i], pdfLineHeight, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, r := range t.Rows {
			for i, c := range r {
				align := "R"
				if i == 0 || i == len(r)-1 && len(t.Header) > 0 && t.Header[len(t.Header)-1] == "INTERVALS" {
					align = "L"
				}
				pdf.CellFormat(widths[i], pdfLineHeight, tr(c), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

// columnWidths gives the first and, for interval tables, the last column more room.
func columnWidths(t Table, usable float64) []float64 {
	n := len(t.Header)
	widths := make([]float64, n)
	if n == 0 {
		return widths
	}
	weights := make([]float64, n)
	total := 0.0
	for i := range weights {
		weights[i] = 1
		if i == 0 {
			weights[i] = 2.5
		}
		if i == n-1 && t.Header[i] == "INTERVALS" {
			weights[i] = 5
		}
		total += weights[i]
	}
	for i := range widths {
		widths[i] = usable * weights[i] / total
	}
	return widths
}
