package report

import (
	"fmt"
	"log"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// SavePDF composes the result tables and the rendered plot into one
// PDF under the output directory and returns the written path.
// plotPath may be empty when no plot was rendered.
func (r *Report) SavePDF(res *Result, plotPath string) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Flight delay report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Run %s", res.RunID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", res.GeneratedAt.Format(time.RFC3339)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Flights loaded: %d", res.FlightCount), "", 1, "L", false, 0, "")

	pdfTable(pdf, "Top routes by flight count", routeHeader, routeRows(res.TopRoutes))
	pdfTable(pdf, "Worst carriers by mean departure delay", carrierHeader, carrierRows(res.WorstDep))
	pdfTable(pdf, "Worst carriers by mean arrival delay", carrierHeader, carrierRows(res.WorstArr))
	pdfTable(pdf, "Tightest schedules relative to route median", tightHeader, tightRows(res.Tightest))

	worst := worstRouteStats(res.RouteStats)
	pdfTable(pdf,
		fmt.Sprintf("Routes by mean departure delay (%d routes, worst %d shown)", len(res.RouteStats), len(worst)),
		statHeader, statRows(worst))

	pdfTable(pdf,
		fmt.Sprintf("Airport pair distances (%d pairs, first %d shown)", res.DistanceCount, len(res.DistanceHead)),
		distHeader, distRows(res.DistanceHead))

	if plotPath != "" {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Mean departure delay by route distance", "", 1, "L", false, 0, "")
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.ImageOptions(plotPath, 15, pdf.GetY()+2, 180, 0, false, opts, 0, "")
	}

	path, err := r.artifactPath(r.cfg.PDFFile)
	if err != nil {
		return "", err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to save pdf: %w", err)
	}

	log.Printf("PDF written: %s", path)
	return path, nil
}

func pdfTable(pdf *gofpdf.Fpdf, title string, header []string, rows [][]string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")

	colWidth := 180.0 / float64(len(header))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range header {
		pdf.CellFormat(colWidth, 6, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
