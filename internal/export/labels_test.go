package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelCut/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("labels file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("labels file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyPlan(t *testing.T) {
	err := ExportLabels(filepath.Join(t.TempDir(), "empty.pdf"), Plan{})
	if !errors.Is(err, ErrNoPanels) {
		t.Fatalf("expected ErrNoPanels, got %v", err)
	}
}

func TestExportLabels_NoPieces(t *testing.T) {
	plan := Plan{
		Config: model.DefaultConfig(),
		Layout: model.Layout{Panels: []model.Panel{model.NewPanel(1, 1000, 500, 0)}},
	}
	if err := ExportLabels(filepath.Join(t.TempDir(), "none.pdf"), plan); err == nil {
		t.Fatal("expected error for a plan without pieces, got nil")
	}
}

func TestExportLabels_MultiplePages(t *testing.T) {
	plan := buildTestPlan()
	panel := model.NewPanel(1, 2800, 2070, 0)
	for i := 0; i < labelsPerPage+5; i++ {
		panel.Pieces = append(panel.Pieces, model.PlacedPiece{
			ID: "p", X: float64(i%10) * 200, Y: float64(i/10) * 200,
			Width: 150, Height: 150, OriginalWidth: 150, OriginalHeight: 150,
		})
	}
	plan.Layout.Panels = []model.Panel{panel}

	if err := ExportLabels(filepath.Join(t.TempDir(), "many.pdf"), plan); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestPlan())

	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}

	first := labels[0]
	if first.Name != "Side" || first.Number != 1 || first.Panel != 1 {
		t.Errorf("first label = %+v, want Side #1 on panel 1", first)
	}
	if first.X != 10 || first.Y != 10 {
		t.Errorf("position should include the margin, got (%g, %g)", first.X, first.Y)
	}
	if first.Project != "Kitchen" {
		t.Errorf("project = %q, want Kitchen", first.Project)
	}

	shelf := labels[2]
	if shelf.Name != "Shelf" || shelf.Number != 3 {
		t.Errorf("third label = %+v, want Shelf #3", shelf)
	}
	if !shelf.Rotated {
		t.Error("expected shelf label to be rotated")
	}
	if shelf.Width != 400 || shelf.Height != 300 {
		t.Errorf("labels carry original dimensions, got %gx%g", shelf.Width, shelf.Height)
	}

	if labels[3].Panel != 2 || labels[3].Number != 1 {
		t.Errorf("numbering restarts per panel, got panel %d #%d", labels[3].Panel, labels[3].Number)
	}
}

func TestCollectLabelInfos_UnnamedPiece(t *testing.T) {
	plan := buildTestPlan()
	plan.Layout.Panels[1].Pieces[0].Name = ""

	labels := CollectLabelInfos(plan)
	if got := labels[3].Name; got != "800×500" {
		t.Errorf("unnamed piece label = %q, want dimensions", got)
	}
}

func TestLabelInfo_JSONKeys(t *testing.T) {
	data, err := json.Marshal(CollectLabelInfos(buildTestPlan())[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"project", "name", "width_mm", "height_mm", "panel", "number", "rotated", "x_mm", "y_mm"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("QR payload is missing key %q", key)
		}
	}
}
