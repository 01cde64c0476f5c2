// PanelCut plans how to cut rectangular pieces out of stock panels.
//
// Build:
//
//	go build -o panelcut ./cmd/panelcut
//
// Usage:
//
//	panelcut plan job.yaml --pdf plan.pdf
//	panelcut plan pieces.csv --panel 2800x2070 --kerf 3.2 --xlsx cutlist.xlsx
//	panelcut compare job.yaml
//	panelcut history list
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
