package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 10.0
	drawAreaTop  = marginTop + headerHeight + 5.0

	// The cutting list table sits right of the drawing.
	tableLeft  = 205.0
	tableWidth = pageWidth - marginRight - tableLeft
)

// ExportPDF writes the printable cutting plan: a cover page with the project
// summary, one page per panel with its drawing and cutting list, and a final
// per-panel summary table.
func ExportPDF(path string, plan Plan) error {
	if err := plan.check(); err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(plan.title(), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	renderCoverPage(pdf, tr, plan)

	for _, panel := range plan.Layout.Panels {
		pdf.AddPage()
		renderPanelPage(pdf, tr, plan, panel)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, tr, plan)

	return errors.Wrap(pdf.OutputFileAndClose(path), "write pdf")
}

// renderCoverPage draws the title block and the project summary box.
func renderCoverPage(pdf *fpdf.Fpdf, tr func(string) string, plan Plan) {
	cfg := plan.Config
	summary := model.Summarize(plan.Layout, cfg)
	contentW := pageWidth - marginLeft - marginRight

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetXY(marginLeft, 50)
	pdf.CellFormat(contentW, 12, tr(plan.title()), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentW, 9, "Cutting plan", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetX(marginLeft)
	pdf.CellFormat(contentW, 6, plan.Created.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	items := []struct {
		label string
		value string
	}{
		{"Panels", fmt.Sprintf("%d", summary.Panels)},
		{"Pieces", fmt.Sprintf("%d", summary.Pieces)},
		{"Cuts", fmt.Sprintf("%d", summary.Cuts)},
		{"Panel dimensions", fmt.Sprintf("%g × %g × %g mm", cfg.PanelWidth, cfg.PanelHeight, cfg.PanelThickness)},
		{"Blade thickness", fmt.Sprintf("%g mm", cfg.BladeThickness)},
		{"Waste", fmt.Sprintf("%.1f%%", summary.WastePercent)},
	}
	if cfg.SafetyMargin > 0 {
		items = append(items, struct {
			label string
			value string
		}{"Safety margin", fmt.Sprintf("%g mm", cfg.SafetyMargin)})
	}
	if summary.TotalCost > 0 {
		items = append(items, struct {
			label string
			value string
		}{"Total cost", fmt.Sprintf("%.2f", summary.TotalCost)})
	}

	boxW := 120.0
	boxX := (pageWidth - boxW) / 2
	boxY := 95.0
	boxH := float64(len(items))*7 + 8
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.3)
	pdf.Rect(boxX, boxY, boxW, boxH, "FD")

	y := boxY + 4
	for _, item := range items {
		pdf.SetXY(boxX+6, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(55, 7, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(boxW-67, 7, tr(item.value), "", 0, "R", false, 0, "")
		y += 7
	}
}

// renderPanelPage draws one panel and its cutting list on the current page.
func renderPanelPage(pdf *fpdf.Fpdf, tr func(string) string, plan Plan, panel model.Panel) {
	cfg := plan.Config

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Panel %d (%g × %g mm)", panel.Number, panel.FullWidth, panel.FullHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, tr(title), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Used: %.0f mm² | Efficiency: %.1f%%",
		len(panel.Pieces), panel.UsedArea(), panel.Efficiency())
	pdf.CellFormat(tableLeft-marginLeft, 5, tr(stats), "", 0, "L", false, 0, "")

	drawWidth := tableLeft - 10 - marginLeft
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	scale := math.Min(drawWidth/panel.FullWidth, drawHeight/panel.FullHeight)

	canvasW := panel.FullWidth * scale
	canvasH := panel.FullHeight * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Panel background (wood color)
	pdf.SetFillColor(222, 196, 160)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	if panel.Margin > 0 {
		drawMarginBand(pdf, panel.Margin*scale, offsetX, offsetY, canvasW, canvasH)
	}

	// Pieces are placed relative to the trimmed area.
	originX := offsetX + panel.Margin*scale
	originY := offsetY + panel.Margin*scale

	if cfg.ShowWaste {
		pdf.SetFillColor(255, 255, 255)
		pdf.SetDrawColor(190, 190, 190)
		pdf.SetLineWidth(0.1)
		for _, r := range panel.Spaces {
			pdf.Rect(originX+r.X*scale, originY+r.Y*scale, r.Width*scale, r.Height*scale, "FD")
		}
	}

	numbers := model.PieceNumbers(panel)
	for i, pp := range panel.Pieces {
		drawPiece(pdf, tr, pp, numbers[i], colorFor(i), scale, originX, originY)
	}

	if cfg.ShowCutLines {
		drawCutLines(pdf, panel, scale, originX, originY)
	}

	drawDimensionAnnotations(pdf, panel, offsetX, offsetY, canvasW, canvasH)
	drawCuttingList(pdf, tr, panel)
}

// drawPiece fills one placed piece and writes its number and dimensions.
func drawPiece(pdf *fpdf.Fpdf, tr func(string) string, pp model.PlacedPiece, number int, col pieceColor, scale, originX, originY float64) {
	pw := pp.Width * scale
	ph := pp.Height * scale
	px := originX + pp.X*scale
	py := originY + pp.Y*scale

	pdf.SetAlpha(0.7, "Normal")
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.Rect(px, py, pw, ph, "F")
	pdf.SetAlpha(1, "Normal")

	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)
	pdf.Rect(px, py, pw, ph, "D")

	if pw < 6 || ph < 5 {
		return
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", labelFontSize(pw, ph))
	num := fmt.Sprintf("%d", number)
	numW := pdf.GetStringWidth(num)
	pdf.SetXY(px+(pw-numW)/2, py+ph/2-4)
	pdf.CellFormat(numW, 4, num, "", 0, "C", false, 0, "")

	if ph < 12 {
		return
	}
	pdf.SetFont("Helvetica", "", labelFontSize(pw, ph)-1)
	dims := fmt.Sprintf("%g×%g", pp.OriginalWidth, pp.OriginalHeight)
	if pp.Rotated {
		dims += " R"
	}
	dims = tr(dims)
	dimsW := pdf.GetStringWidth(dims)
	if dimsW < pw-2 {
		pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
		pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
	}
}

// drawMarginBand hatches the trimmed border of a panel.
func drawMarginBand(pdf *fpdf.Fpdf, band, x, y, w, h float64) {
	zones := [][4]float64{
		{x, y, w, band},
		{x, y + h - band, w, band},
		{x, y + band, band, h - 2*band},
		{x + w - band, y + band, band, h - 2*band},
	}
	pdf.SetFillColor(255, 220, 220)
	for _, z := range zones {
		pdf.Rect(z[0], z[1], z[2], z[3], "F")
		drawHatchPattern(pdf, z[0], z[1], z[2], z[3])
	}
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark an
// unusable zone.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.15)

	spacing := 2.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawCutLines dashes the right and bottom edge of every piece, which is
// where the saw runs.
func drawCutLines(pdf *fpdf.Fpdf, panel model.Panel, scale, originX, originY float64) {
	pdf.SetDrawColor(220, 38, 38)
	pdf.SetLineWidth(0.2)
	pdf.SetDashPattern([]float64{1.5, 1}, 0)
	for _, pp := range panel.Pieces {
		r := pp.Rect()
		if r.Right() < panel.Width-model.Tolerance {
			pdf.Line(originX+r.Right()*scale, originY+r.Y*scale, originX+r.Right()*scale, originY+r.Bottom()*scale)
		}
		if r.Bottom() < panel.Height-model.Tolerance {
			pdf.Line(originX+r.X*scale, originY+r.Bottom()*scale, originX+r.Right()*scale, originY+r.Bottom()*scale)
		}
	}
	pdf.SetDashPattern([]float64{}, 0)
}

// drawDimensionAnnotations adds width and height labels outside the panel.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, panel model.Panel, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%g mm", panel.FullWidth)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%g mm", panel.FullHeight)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawCuttingList renders the grouped cutting list beside the drawing.
func drawCuttingList(pdf *fpdf.Fpdf, tr func(string) string, panel model.Panel) {
	rows := model.CuttingList(panel)
	y := drawAreaTop

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(tableLeft, y)
	pdf.CellFormat(tableWidth, 7, "Cutting list", "", 0, "L", false, 0, "")
	y += 8

	colWidths := []float64{27, 16, 16, 18}
	headers := []string{"Pieces", "Width", "Height", "Qty"}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.2)
	x := tableLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 8)
	for i, row := range rows {
		if y > pageHeight-marginBottom-6 {
			pdf.SetXY(tableLeft, y)
			pdf.CellFormat(tableWidth, 5, fmt.Sprintf("... %d more rows", len(rows)-i), "", 0, "L", false, 0, "")
			break
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{
			numberList(row.PieceNumbers, pdf, colWidths[0]-2),
			fmt.Sprintf("%g", row.Width),
			fmt.Sprintf("%g", row.Height),
			fmt.Sprintf("%d", row.Count),
		}
		x = tableLeft
		for j, c := range cells {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], 5.5, tr(c), "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += 5.5
	}
}

// numberList joins piece numbers, shortening the list to fit maxW.
func numberList(nums []int, pdf *fpdf.Fpdf, maxW float64) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	s := strings.Join(parts, ", ")
	for k := len(parts) - 1; k > 0 && pdf.GetStringWidth(s) > maxW; k-- {
		s = strings.Join(parts[:k], ", ") + "..."
	}
	return s
}

// renderSummaryPage draws the final page with the per-panel breakdown.
func renderSummaryPage(pdf *fpdf.Fpdf, tr func(string) string, plan Plan) {
	summary := model.Summarize(plan.Layout, plan.Config)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	pdf.SetFont("Helvetica", "", 10)
	overall := fmt.Sprintf("%d panels, %d pieces, %d cuts, %.1f%% waste (layout: %s)",
		summary.Panels, summary.Pieces, summary.Cuts, summary.WastePercent, plan.Layout.Strategy)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, overall, "", 0, "L", false, 0, "")
	y += 10

	colWidths := []float64{20, 50, 25, 35, 60}
	headers := []string{"Panel", "Dimensions", "Pieces", "Efficiency", "Used / Total Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetLineWidth(0.2)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, panel := range plan.Layout.Panels {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		rowData := []string{
			fmt.Sprintf("%d", panel.Number),
			fmt.Sprintf("%g × %g mm", panel.FullWidth, panel.FullHeight),
			fmt.Sprintf("%d", len(panel.Pieces)),
			fmt.Sprintf("%.1f%%", panel.Efficiency()),
			fmt.Sprintf("%.0f / %.0f mm²", panel.UsedArea(), panel.TotalArea()),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, tr(cell), "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if summary.TotalCost > 0 {
		y += 6
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 6, fmt.Sprintf("Total cost: %.2f (%.2f per panel)", summary.TotalCost, summary.PanelCost), "", 0, "L", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PanelCut", "", 0, "C", false, 0, "")
}

// labelFontSize returns a font size that fits the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 9
	case minDim > 20:
		return 8
	default:
		return 7
	}
}
