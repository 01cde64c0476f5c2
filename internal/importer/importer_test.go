package importer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Width,Height,Qty\nShelf,600,300,2\nDoor,400,800,1\n", ','},
		{"semicolon", "Nom;Largeur;Hauteur;Quantité\nEtagère;600;300;2\nPorte;400;800;1\n", ';'},
		{"tab", "Name\tWidth\tHeight\tQty\nShelf\t600\t300\t2\nDoor\t400\t800\t1\n", '\t'},
		{"pipe", "Name|Width|Height|Qty\nShelf|600|300|2\nDoor|400|800|1\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Name", "Width", "Height", "Quantity"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, Width: 1, Height: 2, Quantity: 3}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_FrenchAndReordered(t *testing.T) {
	mapping, ok := DetectColumns([]string{" QUANTITÉ ", "Hauteur", "Désignation", "Largeur"})
	if !ok {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 2, Width: 3, Height: 1, Quantity: 0}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, ok := DetectColumns([]string{"Shelf", "600", "300", "2"})
	if ok {
		t.Error("expected no header")
	}
	if mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	csv := "Name,Width,Height,Qty\nShelf,600,300,2\nDoor,400,800,1\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(result.Pieces))
	}
	p := result.Pieces[0]
	if p.Name != "Shelf" || p.Width != 600 || p.Height != 300 || p.Quantity != 2 {
		t.Errorf("unexpected first piece %+v", p)
	}
	if len(p.ID) != 8 {
		t.Errorf("expected generated id, got %q", p.ID)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Shelf,600,300,2\n,400,800,1\n"), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(result.Pieces))
	}
	if result.Pieces[1].Name != "" {
		t.Errorf("unnamed rows stay unnamed, got %q", result.Pieces[1].Name)
	}
	if result.Pieces[1].Label() != "400×800" {
		t.Errorf("expected dimension label, got %q", result.Pieces[1].Label())
	}
}

func TestImportCSVFromReader_QuantityOptional(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Width;Height\n600;300\n"), ';')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Pieces) != 1 || result.Pieces[0].Quantity != 1 {
		t.Fatalf("expected one piece with quantity 1, got %+v", result.Pieces)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "No quantity column") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a warning about the missing quantity column, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_DecimalComma(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Nom;Largeur;Hauteur;Qté\nTablette;600,5;300;1\n"), ';')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Pieces[0].Width != 600.5 {
		t.Errorf("expected width 600.5, got %f", result.Pieces[0].Width)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"invalid width", "Shelf,abc,300,1", "Invalid width 'abc'"},
		{"missing height", "Shelf,600,,1", "Missing height value"},
		{"invalid quantity", "Shelf,600,300,two", "Invalid quantity 'two'"},
		{"negative", "Shelf,-600,300,1", "must be positive"},
		{"zero quantity", "Shelf,600,300,0", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ImportCSVFromReader(strings.NewReader("Name,Width,Height,Qty\n"+tt.row+"\n"), ',')
			if len(result.Errors) != 1 {
				t.Fatalf("expected 1 error, got %v", result.Errors)
			}
			if !strings.Contains(result.Errors[0], tt.want) || !strings.HasPrefix(result.Errors[0], "Line 2") {
				t.Errorf("unexpected error %q", result.Errors[0])
			}
			if !errors.Is(result.Err(), ErrImportFailed) {
				t.Error("Err should wrap ErrImportFailed")
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	csv := "Name,Width,Height,Qty\nShelf,600,300,2\nBad,x,300,1\n\nDoor,400,800,1\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Pieces) != 2 {
		t.Errorf("expected 2 valid pieces, got %d", len(result.Pieces))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestImportCSVFromReader_MissingRequiredColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width,Qty\nShelf,600,2\n"), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Height") {
		t.Errorf("expected missing Height error, got %v", result.Errors)
	}
	if len(result.Pieces) != 0 {
		t.Error("no pieces expected when required columns are missing")
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pieces.csv")
	data := "Nom;Largeur;Hauteur;Quantité\nCôté;720;560;2\nFond;800;720;1\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportFile(path)

	if err := result.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(result.Pieces))
	}
	if result.Warnings[0] != "Detected semicolon delimiter" {
		t.Errorf("unexpected warnings %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_WhitespaceOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.csv")
	if err := os.WriteFile(path, []byte("  \n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)

	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pieces.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Piece", "Length", "Depth", "Pcs"},
		{"Shelf", 600, 300, 2},
		{"Door", 400.5, 800, 1},
	})

	result := ImportFile(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 pieces, got %d", len(result.Pieces))
	}
	if result.Pieces[1].Width != 400.5 || result.Pieces[1].Height != 800 {
		t.Errorf("unexpected second piece %+v", result.Pieces[1])
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Height", "Qty"},
		{"Shelf", "wide", 300, 2},
	})

	result := ImportExcel(path)

	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Row 2") {
		t.Errorf("expected one Row 2 error, got %v", result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

func TestImportDXF_Rectangles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pieces.dxf")
	d := dxf.NewDrawing()
	rect := func(x, y, w, h float64) {
		corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
		for i := range corners {
			a, b := corners[i], corners[(i+1)%4]
			if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
				t.Fatal(err)
			}
		}
	}
	rect(0, 0, 600, 300)
	rect(1000, 0, 600, 300)
	rect(0, 1000, 250, 400)
	if _, err := d.Circle(2000, 2000, 0, 50); err != nil {
		t.Fatal(err)
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("failed to save DXF: %v", err)
	}

	result := ImportFile(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Pieces) != 2 {
		t.Fatalf("expected 2 distinct sizes, got %d", len(result.Pieces))
	}
	if p := result.Pieces[0]; p.Width != 600 || p.Height != 300 || p.Quantity != 2 {
		t.Errorf("unexpected first piece %+v", p)
	}
	if p := result.Pieces[1]; p.Width != 250 || p.Height != 400 || p.Quantity != 1 {
		t.Errorf("unexpected second piece %+v", p)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != "Skipped 1 CIRCLE entities" {
		t.Errorf("unexpected warnings %v", result.Warnings)
	}
}

func TestRectangleSize(t *testing.T) {
	_, _, ok := rectangleSize([]point{{0, 0}, {100, 0}, {100, 50}, {0, 50}})
	if !ok {
		t.Error("axis-aligned rectangle should be accepted")
	}
	_, _, ok = rectangleSize([]point{{0, 0}, {100, 0}, {50, 50}})
	if ok {
		t.Error("triangle should be rejected")
	}
	_, _, ok = rectangleSize([]point{{0, 0}, {100, 0}, {100, 50}, {50, 50}, {50, 100}, {0, 100}})
	if ok {
		t.Error("L shape should be rejected")
	}
}

func TestChainSegmentsIgnoresOpenChains(t *testing.T) {
	open := []segment{
		{point{0, 0}, point{10, 0}},
		{point{10, 0}, point{10, 10}},
	}
	if got := chainSegments(open, chainTolerance); len(got) != 0 {
		t.Errorf("expected no outlines, got %v", got)
	}
}

func TestImportDXF_FileNotFound(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "missing.dxf"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
