package export

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Sheet names of the XLSX cutting list.
const (
	summarySheet    = "Summary"
	placementsSheet = "Placements"
)

// PanelSheetName returns the workbook sheet holding a panel's cutting list.
func PanelSheetName(number int) string {
	return fmt.Sprintf("Panel %d", number)
}

// ExportCutList writes the plan as an XLSX workbook: a summary sheet, one
// cutting list sheet per panel and a flat sheet with every placement.
func ExportCutList(path string, plan Plan) error {
	if err := plan.check(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return errors.Wrap(err, "rename first sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}

	if err := writeSummarySheet(f, bold, plan); err != nil {
		return err
	}
	for _, panel := range plan.Layout.Panels {
		if err := writePanelSheet(f, bold, panel); err != nil {
			return errors.Wrapf(err, "panel %d", panel.Number)
		}
	}
	if err := writePlacementsSheet(f, bold, plan); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return errors.Wrap(f.SaveAs(path), "write xlsx")
}

func writeSummarySheet(f *excelize.File, bold int, plan Plan) error {
	cfg := plan.Config
	s := model.Summarize(plan.Layout, cfg)
	rows := [][]interface{}{
		{"Project", plan.title()},
		{"Date", plan.Created.Format("2006-01-02 15:04")},
		{"Layout", plan.Layout.Strategy},
		{"Panel width (mm)", cfg.PanelWidth},
		{"Panel height (mm)", cfg.PanelHeight},
		{"Panel thickness (mm)", cfg.PanelThickness},
		{"Blade thickness (mm)", cfg.BladeThickness},
		{"Safety margin (mm)", cfg.SafetyMargin},
		{"Panels", s.Panels},
		{"Pieces", s.Pieces},
		{"Cuts", s.Cuts},
		{"Waste (%)", round1(s.WastePercent)},
	}
	if s.TotalCost > 0 {
		rows = append(rows, []interface{}{"Total cost", s.TotalCost})
	}
	if err := writeRows(f, summarySheet, 1, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), bold); err != nil {
		return errors.Wrap(err, "style summary")
	}
	return errors.Wrap(f.SetColWidth(summarySheet, "A", "B", 24), "size summary columns")
}

func writePanelSheet(f *excelize.File, bold int, panel model.Panel) error {
	name := PanelSheetName(panel.Number)
	if _, err := f.NewSheet(name); err != nil {
		return errors.Wrap(err, "create sheet")
	}

	rows := [][]interface{}{{"Pieces", "Width", "Height", "Qty", "Names"}}
	for _, row := range model.CuttingList(panel) {
		nums := make([]string, len(row.PieceNumbers))
		for i, n := range row.PieceNumbers {
			nums[i] = fmt.Sprintf("%d", n)
		}
		rows = append(rows, []interface{}{
			strings.Join(nums, ", "), row.Width, row.Height, row.Count, row.NameList(),
		})
	}
	if err := writeRows(f, name, 1, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", "E1", bold); err != nil {
		return errors.Wrap(err, "style header")
	}
	return errors.Wrap(f.SetColWidth(name, "A", "E", 16), "size columns")
}

func writePlacementsSheet(f *excelize.File, bold int, plan Plan) error {
	if _, err := f.NewSheet(placementsSheet); err != nil {
		return errors.Wrap(err, "create placements sheet")
	}

	rows := [][]interface{}{{"Panel", "Number", "Name", "Width", "Height", "X", "Y", "Rotated"}}
	for _, panel := range plan.Layout.Panels {
		numbers := model.PieceNumbers(panel)
		for _, idx := range model.ReadingOrder(panel) {
			pp := panel.Pieces[idx]
			rows = append(rows, []interface{}{
				panel.Number, numbers[idx], pp.Label(),
				pp.OriginalWidth, pp.OriginalHeight,
				pp.X + panel.Margin, pp.Y + panel.Margin, pp.Rotated,
			})
		}
	}
	if err := writeRows(f, placementsSheet, 1, rows); err != nil {
		return err
	}
	return errors.Wrap(f.SetCellStyle(placementsSheet, "A1", "H1", bold), "style placements header")
}

// writeRows writes rows starting at the given 1-based row number.
func writeRows(f *excelize.File, sheet string, first int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, first+i)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write %s row %d", sheet, first+i)
		}
	}
	return nil
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
