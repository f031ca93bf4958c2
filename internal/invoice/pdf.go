package invoice

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
)

const rowsPerPage = 18

// RenderPDF produces an A4 portrait invoice with the item table split across
// pages of 18 rows and a summary block after the last row.
func RenderPDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, false)
	pdf.AddPage()
	writeHeader(pdf, doc)
	writeTableHead(pdf)

	for i, line := range doc.Lines {
		if i > 0 && i%rowsPerPage == 0 {
			pdf.AddPage()
			writeHeader(pdf, doc)
			writeTableHead(pdf)
		}
		pdf.CellFormat(90, 7, line.DisplayName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 7, line.LineCost, "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(130, 7, "Subtotal", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, doc.Subtotal, "1", 1, "R", false, 0, "")
	pdf.CellFormat(130, 7, fmt.Sprintf("GST (%s%%)", doc.GSTRate), "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, doc.GSTAmount, "1", 1, "R", false, 0, "")
	pdf.CellFormat(130, 7, fmt.Sprintf("Tax (%s%%)", doc.TaxRate), "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, doc.TaxAmount, "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(130, 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, doc.Total, "1", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, doc Document) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", doc.GeneratedAt.Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeTableHead(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 8, "Material", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Quantity", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 8, "Cost", "1", 1, "C", true, 0, "")
	pdf.SetFont("Arial", "", 10)
}
