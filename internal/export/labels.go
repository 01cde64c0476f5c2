package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/PanelCut/internal/model"
)

// LabelInfo holds the data encoded into each piece label's QR code.
type LabelInfo struct {
	Project string  `json:"project,omitempty"`
	Name    string  `json:"name"`
	Width   float64 `json:"width_mm"`
	Height  float64 `json:"height_mm"`
	Panel   int     `json:"panel"`
	Number  int     `json:"number"`
	Rotated bool    `json:"rotated"`
	X       float64 `json:"x_mm"`
	Y       float64 `json:"y_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per placed piece, in
// panel order and reading order within a panel. Positions on the label are
// measured from the panel's outer edge.
func ExportLabels(path string, plan Plan) error {
	if err := plan.check(); err != nil {
		return err
	}

	labels := CollectLabelInfos(plan)
	if len(labels) == 0 {
		return errors.New("no pieces placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, tr, x, y, label); err != nil {
			return errors.Wrapf(err, "render label for %q", label.Name)
		}
	}

	return errors.Wrap(pdf.OutputFileAndClose(path), "write labels")
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "marshal label info")
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return errors.Wrap(err, "generate QR code")
	}

	imgName := fmt.Sprintf("qr_p%d_n%d", info.Panel, info.Number)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	name := tr(fmt.Sprintf("#%d %s", info.Number, info.Name))
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%g x %g mm", info.Width, info.Height)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	where := fmt.Sprintf("Panel %d @ (%.0f, %.0f)", info.Panel, info.X, info.Y)
	pdf.CellFormat(textW, 3, where, "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, tr("Rotated 90°"), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectLabelInfos lists label data for every placed piece of the plan.
func CollectLabelInfos(plan Plan) []LabelInfo {
	var labels []LabelInfo
	for _, panel := range plan.Layout.Panels {
		numbers := model.PieceNumbers(panel)
		for _, idx := range model.ReadingOrder(panel) {
			pp := panel.Pieces[idx]
			labels = append(labels, LabelInfo{
				Project: plan.Config.ProjectTitle,
				Name:    pp.Label(),
				Width:   pp.OriginalWidth,
				Height:  pp.OriginalHeight,
				Panel:   panel.Number,
				Number:  numbers[idx],
				Rotated: pp.Rotated,
				X:       pp.X + panel.Margin,
				Y:       pp.Y + panel.Margin,
			})
		}
	}
	return labels
}
