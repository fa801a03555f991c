package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

// WritePDF writes a one-document A4 report with joint and beam tables.
func WritePDF(w io.Writer, r *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Truss analysis: "+r.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Truss analysis: "+r.Name)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, r.Result.Reason, "", "L", false)
	if len(r.Result.Flagged) > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Flagged joints: %v", r.Result.Flagged))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	table(pdf, "Joints",
		[]string{"#", "x", "y", "anchor", "load x", "load y", "react x", "react y"},
		[]float64{12, 22, 22, 20, 26, 26, 26, 26},
		func(add func(...string)) {
			for _, j := range r.Joints() {
				rx, ry := "", ""
				if j.Reaction != nil {
					rx, ry = fmt.Sprintf("%.3f", j.Reaction.X), fmt.Sprintf("%.3f", j.Reaction.Y)
				}
				add(fmt.Sprint(j.Index), fmt.Sprintf("%.3f", j.X), fmt.Sprintf("%.3f", j.Y),
					fmt.Sprint(j.Anchor), fmt.Sprintf("%.1f", j.Load.X), fmt.Sprintf("%.1f", j.Load.Y), rx, ry)
			}
		})

	pdf.Ln(6)
	table(pdf, "Beams",
		[]string{"#", "joints", "length", "area", "force", "stress", "kind"},
		[]float64{12, 22, 24, 22, 30, 34, 30},
		func(add func(...string)) {
			for _, b := range r.Beams() {
				add(fmt.Sprint(b.Index), fmt.Sprintf("%d-%d", b.J1, b.J2), fmt.Sprintf("%.3f", b.Length),
					fmt.Sprintf("%.4f", b.Area), fmt.Sprintf("%.3f", b.Force), fmt.Sprintf("%.3f", b.Stress), b.Kind)
			}
		})

	return pdf.Output(w)
}

func table(pdf *gofpdf.Fpdf, title string, header []string, widths []float64, rows func(add func(...string))) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 240)
	for i, h := range header {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	rows(func(cells ...string) {
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	})
}
