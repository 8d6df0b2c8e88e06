package handlers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// renderTaskStatusPDF writes the colour breakdown as a one-table A4 landscape document.
func renderTaskStatusPDF(w io.Writer, q models.TaskStatusQuery, groups []models.TaskStatusGroup, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Task status by "+q.GroupBy, false)
	pdf.SetCreator("taskboard", false)

	margin := 15.0
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, "Task status by "+q.GroupBy)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated "+generatedAt.Format("02-Jan-2006 15:04 MST"))
	pdf.Ln(6)
	if q.DueFrom != nil && q.DueTo != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Due between %s and %s", q.DueFrom.Format("02-Jan-2006"), q.DueTo.Format("02-Jan-2006")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	nameWidth, totalWidth, colorWidth := 75.0, 22.0, 34.0

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(nameWidth, 8, strings.ToUpper(q.GroupBy[:1])+q.GroupBy[1:], "1", 0, "L", true, 0, "")
	pdf.CellFormat(totalWidth, 8, "Total", "1", 0, "C", true, 0, "")
	for _, color := range models.AllColors {
		pdf.CellFormat(colorWidth, 8, strings.ToUpper(color[:1])+color[1:], "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	if len(groups) == 0 {
		pdf.CellFormat(nameWidth+totalWidth+colorWidth*float64(len(models.AllColors)), 8, "No tasks match the filters", "1", 0, "C", false, 0, "")
		pdf.Ln(8)
	}
	for _, g := range groups {
		name := g.GroupName
		if name == "" {
			name = "(none)"
		}
		pdf.CellFormat(nameWidth, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(totalWidth, 8, fmt.Sprintf("%d", g.Total), "1", 0, "R", false, 0, "")
		for _, color := range models.AllColors {
			cell := fmt.Sprintf("%d (%.2f%%)", g.Counts[color], g.Percentages[color])
			pdf.CellFormat(colorWidth, 8, cell, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(8)
	}

	return pdf.Output(w)
}
