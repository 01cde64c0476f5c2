package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PanelCut/internal/model"
)

func testConfig(w, h, kerf, margin float64) model.PanelConfig {
	cfg := model.DefaultConfig()
	cfg.PanelWidth = w
	cfg.PanelHeight = h
	cfg.BladeThickness = kerf
	cfg.SafetyMargin = margin
	return cfg
}

func quietOptimizer() *Optimizer {
	logger, _ := logtest.NewNullLogger()
	return New(Options{Logger: logger})
}

// requireValidLayout checks the packing invariants: bounds, no overlap and
// no dropped pieces.
func requireValidLayout(t *testing.T, l model.Layout, wantInstances int) {
	t.Helper()
	placed := 0
	for _, p := range l.Panels {
		bounds := model.Rect{Width: p.Width, Height: p.Height}
		for i, a := range p.Pieces {
			require.True(t, bounds.Contains(a.Rect()), "panel %d piece %d outside effective area: %+v", p.Number, i, a)
			for j := i + 1; j < len(p.Pieces); j++ {
				require.False(t, a.Rect().Intersects(p.Pieces[j].Rect()),
					"panel %d pieces %d and %d overlap", p.Number, i, j)
			}
		}
		placed += len(p.Pieces)
	}
	require.Equal(t, wantInstances, placed, "every piece instance must be placed exactly once")
}

func TestOptimize_SinglePieceScenario(t *testing.T) {
	opt := quietOptimizer()
	pieces := []model.Piece{model.NewPiece("A", 500, 300, 1)}

	set, err := opt.Plan(pieces, testConfig(1000, 600, 0, 0))

	require.NoError(t, err)
	require.Len(t, set.Layouts, 1, "all strategies give the same layout")
	best := set.Layouts[0]
	require.Len(t, best.Panels, 1)
	require.Len(t, best.Panels[0].Pieces, 1)
	assert.Equal(t, model.Rect{X: 0, Y: 0, Width: 500, Height: 300}, best.Panels[0].Pieces[0].Rect())
	assert.InDelta(t, 50.0, best.WastePercent, 1e-9)
	assert.Equal(t, "area", best.Strategy, "first-ranked duplicate is kept")
}

func TestOptimize_FourPiecesWithKerfOnExactPanel(t *testing.T) {
	// On 800x600 with a 2 mm kerf the first piece leaves a 398x300 space
	// beside it and an 800x298 space below it. Neither takes another door in
	// either orientation, so every door gets its own panel.
	set, err := quietOptimizer().Plan([]model.Piece{model.NewPiece("Door", 400, 300, 4)}, testConfig(800, 600, 2, 0))

	require.NoError(t, err)
	best, ok := set.Best()
	require.True(t, ok)
	assert.Len(t, best.Panels, 4)
	requireValidLayout(t, best, 4)
}

func TestOptimize_OversizedPieceRejectedBeforePacking(t *testing.T) {
	opt := quietOptimizer()
	pieces := []model.Piece{model.NewPiece("Big", 1200, 600, 1)}

	_, err := opt.Plan(pieces, testConfig(1000, 600, 0, 0))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Reason, "larger than the usable panel area")
}

func TestOptimize_FourPiecesWithKerfOnOnePanel(t *testing.T) {
	// Two 400 mm pieces plus one 2 mm kerf need 802 mm, so the panel is
	// sized to hold the 2x2 grid exactly.
	opt := quietOptimizer()
	pieces := []model.Piece{model.NewPiece("Door", 400, 300, 4)}

	set, err := opt.Plan(pieces, testConfig(802, 602, 2, 0))

	require.NoError(t, err)
	best, ok := set.Best()
	require.True(t, ok)
	require.Len(t, best.Panels, 1)
	requireValidLayout(t, best, 4)

	for i, a := range best.Panels[0].Pieces {
		assert.GreaterOrEqual(t, a.Width*a.Height, 400.0*300.0)
		for j, b := range best.Panels[0].Pieces {
			if i == j {
				continue
			}
			// Pieces side by side are separated by at least one kerf.
			gapX := max(b.X-(a.X+a.Width), a.X-(b.X+b.Width))
			gapY := max(b.Y-(a.Y+a.Height), a.Y-(b.Y+b.Height))
			assert.True(t, gapX >= 2-model.Tolerance || gapY >= 2-model.Tolerance,
				"pieces %d and %d closer than the kerf", i, j)
		}
	}
}

func TestOptimize_FourPiecesWithoutKerfFillPanel(t *testing.T) {
	opt := quietOptimizer()
	pieces := []model.Piece{model.NewPiece("Door", 400, 300, 4)}

	set, err := opt.Plan(pieces, testConfig(800, 600, 0, 0))

	require.NoError(t, err)
	best, _ := set.Best()
	require.Len(t, best.Panels, 1)
	requireValidLayout(t, best, 4)
	assert.InDelta(t, 0.0, best.WastePercent, 1e-9)
}

func TestOptimize_OverflowOpensNewPanels(t *testing.T) {
	opt := quietOptimizer()
	pieces := []model.Piece{model.NewPiece("Slab", 900, 900, 3)}

	set, err := opt.Plan(pieces, testConfig(1000, 1000, 3, 0))

	require.NoError(t, err)
	for _, l := range set.Layouts {
		assert.GreaterOrEqual(t, len(l.Panels), 2)
		requireValidLayout(t, l, 3)
		for _, p := range l.Panels {
			for _, pp := range p.Pieces {
				assert.Equal(t, 900.0, pp.Width, "pieces are never split")
				assert.Equal(t, 900.0, pp.Height)
			}
		}
	}
}

func TestOptimize_MarginShrinksUsableArea(t *testing.T) {
	opt := quietOptimizer()
	pieces := []model.Piece{model.NewPiece("Tight", 980, 480, 1)}

	set, err := opt.Plan(pieces, testConfig(1000, 500, 3, 10))

	require.NoError(t, err)
	best, _ := set.Best()
	require.Len(t, best.Panels, 1)
	p := best.Panels[0]
	assert.Equal(t, 980.0, p.Width)
	assert.Equal(t, 480.0, p.Height)
	assert.Equal(t, 1000.0, p.FullWidth)
	assert.Equal(t, 500.0, p.FullHeight)
	assert.Equal(t, 10.0, p.Margin)
}

func randomPieces(seed int64, n int) []model.Piece {
	rng := rand.New(rand.NewSource(seed))
	pieces := make([]model.Piece, 0, n)
	for i := 0; i < n; i++ {
		w := float64(50 + rng.Intn(900))
		h := float64(50 + rng.Intn(600))
		pieces = append(pieces, model.Piece{
			ID:       string(rune('a' + i%26)),
			Width:    w,
			Height:   h,
			Quantity: 1 + rng.Intn(3),
		})
	}
	return pieces
}

func TestOptimize_InvariantsHoldForMixedInput(t *testing.T) {
	opt := quietOptimizer()
	cfg := testConfig(2440, 1220, 3.2, 10)

	for seed := int64(1); seed <= 5; seed++ {
		pieces := randomPieces(seed, 25)
		set, err := opt.Plan(pieces, cfg)
		require.NoError(t, err)
		require.NotEmpty(t, set.Layouts)

		for _, l := range set.Layouts {
			requireValidLayout(t, l, model.InstanceCount(pieces))
			assert.GreaterOrEqual(t, l.WastePercent, 0.0)
			assert.Less(t, l.WastePercent, 100.0)
			assert.GreaterOrEqual(t, l.UsableWaste, 0)
			assert.LessOrEqual(t, l.UsableWaste, len(l.Panels))

			for _, p := range l.Panels {
				assert.LessOrEqual(t, SpaceArea(p.Spaces)+p.UsedArea(), p.TotalArea()+model.Tolerance)
			}
		}

		for i := 1; i < len(set.Layouts); i++ {
			assert.LessOrEqual(t, len(set.Layouts[i-1].Panels), len(set.Layouts[i].Panels), "ranked by panel count")
		}
	}
}

func TestOptimize_Deterministic(t *testing.T) {
	opt := quietOptimizer()
	pieces := randomPieces(42, 30)
	cfg := testConfig(2800, 2070, 3, 5)

	first, err := opt.Plan(pieces, cfg)
	require.NoError(t, err)
	second, err := opt.Plan(pieces, cfg)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("layouts differ between runs (-first +second):\n%s", diff)
	}
}

func TestOptimize_ParallelMatchesSequential(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	pieces := randomPieces(7, 40)
	params := ParamsFromConfig(testConfig(2440, 1220, 3, 0))

	seq, err := New(Options{Logger: logger}).Optimize(pieces, params)
	require.NoError(t, err)
	par, err := New(Options{Logger: logger, Parallel: true}).Optimize(pieces, params)
	require.NoError(t, err)

	if diff := cmp.Diff(seq, par); diff != "" {
		t.Errorf("parallel result differs (-seq +par):\n%s", diff)
	}
}

func TestOptimize_AllStrategiesFail(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	opt := New(Options{Logger: logger})
	// Skips validation on purpose: the piece cannot fit any panel.
	pieces := []model.Piece{model.NewPiece("Huge", 5000, 3000, 1)}

	_, err := opt.Optimize(pieces, ParamsFromConfig(testConfig(1000, 500, 0, 0)))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoLayout))
	assert.True(t, errors.Is(err, ErrPieceTooLarge), "first failure stays in the chain")
	var pe *PlacementError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Huge", pe.Piece.Name)
	assert.Contains(t, err.Error(), "Huge")

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
			assert.Equal(t, "strategy failed, skipping", e.Message)
		}
	}
	assert.Equal(t, len(AllStrategies), warnings, "each failed strategy is logged")
}

func TestOptimize_EmptyInput(t *testing.T) {
	_, err := quietOptimizer().Optimize(nil, ParamsFromConfig(testConfig(1000, 500, 0, 0)))
	assert.True(t, errors.Is(err, ErrNoLayout))
}

func TestOptimize_RestrictedStrategies(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	opt := New(Options{Logger: logger, Strategies: []Strategy{ByPerimeter}})

	set, err := opt.Optimize(randomPieces(3, 10), ParamsFromConfig(testConfig(2440, 1220, 3, 0)))

	require.NoError(t, err)
	require.Len(t, set.Layouts, 1)
	assert.Equal(t, "perimeter", set.Layouts[0].Strategy)
}

func TestPack_PrefersPanelWithLeastWaste(t *testing.T) {
	params := ParamsFromConfig(testConfig(1000, 1000, 0, 0))
	pieces := []model.Piece{
		{ID: "a", Width: 500, Height: 500, Quantity: 1},
		{ID: "b", Width: 800, Height: 800, Quantity: 1},
		{ID: "c", Width: 150, Height: 150, Quantity: 1},
	}

	panels, err := Pack(pieces, params)

	require.NoError(t, err)
	require.Len(t, panels, 2)
	assert.Equal(t, 1, panels[0].Number)
	assert.Equal(t, 2, panels[1].Number)
	assert.Len(t, panels[0].Pieces, 1)
	require.Len(t, panels[1].Pieces, 2, "small piece goes to the fuller panel")
	assert.Equal(t, "c", panels[1].Pieces[1].ID)
}

func TestPack_PieceTooLargeForEmptyPanel(t *testing.T) {
	params := ParamsFromConfig(testConfig(1000, 500, 0, 0))
	big := model.Piece{ID: "x", Name: "Table top", Width: 1500, Height: 800, Quantity: 1}

	_, err := Pack([]model.Piece{piece(100, 100), big}, params)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPieceTooLarge))
	var pe *PlacementError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Table top", pe.Piece.Name)
	assert.Contains(t, err.Error(), "Table top")
}

func TestRankLayouts(t *testing.T) {
	panels := func(n int) []model.Panel { return make([]model.Panel, n) }
	layouts := []model.Layout{
		{Strategy: "three", Panels: panels(3), WastePercent: 1},
		{Strategy: "two-usable-1", Panels: panels(2), UsableWaste: 1, WastePercent: 10},
		{Strategy: "two-usable-2-high", Panels: panels(2), UsableWaste: 2, WastePercent: 40},
		{Strategy: "two-usable-2-low", Panels: panels(2), UsableWaste: 2, WastePercent: 20},
	}

	RankLayouts(layouts)

	var order []string
	for _, l := range layouts {
		order = append(order, l.Strategy)
	}
	assert.Equal(t, []string{"two-usable-2-low", "two-usable-2-high", "two-usable-1", "three"}, order)
}

func TestDedupe(t *testing.T) {
	p := model.Panel{Pieces: []model.PlacedPiece{{X: 0, Y: 0, Width: 10, Height: 10}}}
	q := model.Panel{Pieces: []model.PlacedPiece{{X: 10, Y: 0, Width: 10, Height: 10}}}
	layouts := []model.Layout{
		{Strategy: "a", Panels: []model.Panel{p}},
		{Strategy: "b", Panels: []model.Panel{q}},
		{Strategy: "c", Panels: []model.Panel{p}},
	}

	out := Dedupe(layouts)

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Strategy)
	assert.Equal(t, "b", out[1].Strategy)
}

func TestScore(t *testing.T) {
	panel := model.NewPanel(1, 1000, 600, 0)
	panel.Pieces = []model.PlacedPiece{{X: 0, Y: 0, Width: 500, Height: 300}}
	full := model.NewPanel(2, 1000, 600, 0)
	full.Pieces = []model.PlacedPiece{{X: 0, Y: 0, Width: 1000, Height: 600}}

	l := Score(model.Layout{Panels: []model.Panel{panel, full}}, model.Size{Width: 200, Height: 200})

	assert.Equal(t, 1200000.0, l.TotalArea)
	assert.Equal(t, 750000.0, l.UsedArea)
	assert.Equal(t, 450000.0, l.WasteArea)
	assert.InDelta(t, 37.5, l.WastePercent, 1e-9)
	assert.Equal(t, 1, l.UsableWaste, "full panel has no leftover")
}

func TestScore_CornerProbeMissesCentralOffcut(t *testing.T) {
	// Pieces block all four corners; the free middle is not detected.
	panel := model.NewPanel(1, 1000, 1000, 0)
	panel.Pieces = []model.PlacedPiece{
		{X: 0, Y: 0, Width: 300, Height: 300},
		{X: 700, Y: 0, Width: 300, Height: 300},
		{X: 0, Y: 700, Width: 300, Height: 300},
		{X: 700, Y: 700, Width: 300, Height: 300},
	}

	l := Score(model.Layout{Panels: []model.Panel{panel}}, model.Size{Width: 200, Height: 200})

	assert.Equal(t, 0, l.UsableWaste)
}

func TestStrategySort(t *testing.T) {
	pieces := []model.Piece{
		{ID: "wide", Width: 900, Height: 100},
		{ID: "tall", Width: 100, Height: 800},
		{ID: "square", Width: 400, Height: 400},
		{ID: "square2", Width: 400, Height: 400},
	}
	ids := func(ps []model.Piece) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"square", "square2", "wide", "tall"}, ids(ByArea.Sort(pieces)))
	assert.Equal(t, []string{"wide", "square", "square2", "tall"}, ids(ByWidth.Sort(pieces)))
	assert.Equal(t, []string{"tall", "square", "square2", "wide"}, ids(ByHeight.Sort(pieces)))
	assert.Equal(t, []string{"wide", "tall", "square", "square2"}, ids(ByPerimeter.Sort(pieces)))
	assert.Equal(t, []string{"wide", "tall", "square", "square2"}, ids(ByAspectRatio.Sort(pieces)))
	assert.Equal(t, "wide", pieces[0].ID, "input is not reordered")
}

func TestParseStrategy(t *testing.T) {
	for _, s := range AllStrategies {
		got, ok := ParseStrategy(s.String())
		require.True(t, ok)
		assert.Equal(t, s, got)
	}
	_, ok := ParseStrategy("random")
	assert.False(t, ok)
}

func TestCompareScenarios(t *testing.T) {
	base := testConfig(2440, 1220, 4, 10)
	base.PanelCost = 50
	scenarios := BuildDefaultScenarios(base)
	require.Len(t, scenarios, 4)
	assert.Equal(t, 2.0, scenarios[1].Config.BladeThickness)
	assert.Equal(t, 0.0, scenarios[2].Config.SafetyMargin)
	assert.Equal(t, 1220.0, scenarios[3].Config.PanelWidth)

	pieces := []model.Piece{model.NewPiece("Shelf", 800, 300, 6)}
	results := quietOptimizer().CompareScenarios(scenarios, pieces)

	require.Len(t, results, len(scenarios))
	for _, r := range results {
		require.NoError(t, r.Err)
		assert.GreaterOrEqual(t, r.PanelsUsed, 1)
		assert.Equal(t, float64(r.PanelsUsed)*50, r.TotalCost)
	}
}

func TestCompareScenarios_InvalidScenarioReported(t *testing.T) {
	bad := testConfig(1000, 500, 30, 0)
	results := quietOptimizer().CompareScenarios(
		[]ComparisonScenario{{Name: "bad blade", Config: bad}},
		[]model.Piece{model.NewPiece("A", 100, 100, 1)},
	)

	require.Len(t, results, 1)
	assert.True(t, errors.Is(results[0].Err, ErrInvalidInput))
}
