package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/PanelCut/internal/model"
)

// printLayouts lists the ranked alternatives, marking the selected one.
func printLayouts(w io.Writer, set model.LayoutSet) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\t#\tSTRATEGY\tPANELS\tWASTE\tUSABLE")
	for i, l := range set.Layouts {
		mark := ""
		if i == set.Current {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%.1f%%\t%d\n", mark, i, l.Strategy, len(l.Panels), l.WastePercent, l.UsableWaste)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// printPlan writes the summary, the cutting list of every panel and the
// reusable offcuts of a layout.
func printPlan(w io.Writer, cfg model.PanelConfig, l model.Layout) {
	s := model.Summarize(l, cfg)
	title := cfg.ProjectTitle
	if title == "" {
		title = "Untitled project"
	}
	fmt.Fprintf(w, "%s: %d panels of %g×%g×%g mm, %d pieces, %d cuts, %.1f%% waste\n",
		title, s.Panels, cfg.PanelWidth, cfg.PanelHeight, cfg.PanelThickness, s.Pieces, s.Cuts, s.WastePercent)
	if s.TotalCost > 0 {
		fmt.Fprintf(w, "Total cost: %.2f\n", s.TotalCost)
	}

	for _, p := range l.Panels {
		fmt.Fprintf(w, "\nPanel %d (%.1f%% used)\n", p.Number, p.Efficiency())
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  PIECES\tWIDTH\tHEIGHT\tQTY\tNAMES")
		for _, row := range model.CuttingList(p) {
			fmt.Fprintf(tw, "  %s\t%g\t%g\t%d\t%s\n", joinInts(row.PieceNumbers), row.Width, row.Height, row.Count, row.NameList())
		}
		tw.Flush()
	}

	offcuts := model.DetectAllOffcuts(l, cfg.MinUsable(), cfg.PanelCost)
	if len(offcuts) == 0 {
		return
	}
	fmt.Fprintf(w, "\nReusable offcuts (%.2f m²)\n", model.TotalOffcutArea(offcuts)/1e6)
	for _, o := range offcuts {
		line := fmt.Sprintf("  panel %d: %g×%g at (%g, %g)", o.PanelNumber, o.Width, o.Height, o.X, o.Y)
		if o.Value > 0 {
			line += fmt.Sprintf(", worth %.2f", o.Value)
		}
		fmt.Fprintln(w, line)
	}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}
