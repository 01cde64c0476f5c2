package engine

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Options configure an Optimizer.
type Options struct {
	// Strategies to evaluate; AllStrategies when empty.
	Strategies []Strategy
	// Parallel runs every strategy on its own goroutine. Results are
	// identical to a sequential run.
	Parallel bool
	// Logger receives strategy diagnostics; logrus.StandardLogger() when nil.
	Logger logrus.FieldLogger
}

// Optimizer runs the multi-strategy layout search.
type Optimizer struct {
	strategies []Strategy
	parallel   bool
	log        logrus.FieldLogger
}

func New(opts Options) *Optimizer {
	o := &Optimizer{
		strategies: opts.Strategies,
		parallel:   opts.Parallel,
		log:        opts.Logger,
	}
	if len(o.strategies) == 0 {
		o.strategies = AllStrategies
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
	return o
}

// GenerateLayouts runs the default optimizer.
func GenerateLayouts(pieces []model.Piece, p Params) (model.LayoutSet, error) {
	return New(Options{}).Optimize(pieces, p)
}

// Plan validates the input and then optimizes it. Nothing is packed when
// validation fails.
func (o *Optimizer) Plan(pieces []model.Piece, cfg model.PanelConfig) (model.LayoutSet, error) {
	if err := ValidateInputs(pieces, cfg); err != nil {
		return model.LayoutSet{}, err
	}
	return o.Optimize(pieces, ParamsFromConfig(cfg))
}

// strategyRun is the outcome of packing with one strategy.
type strategyRun struct {
	strategy Strategy
	layout   model.Layout
	err      error
}

// Optimize packs the pieces once per strategy, scores each layout and
// returns them ranked and deduplicated. A failing strategy is logged and
// skipped; ErrNoLayout is returned only if all of them fail.
func (o *Optimizer) Optimize(pieces []model.Piece, p Params) (model.LayoutSet, error) {
	instances := model.ExpandPieces(pieces)
	if len(instances) == 0 {
		return model.LayoutSet{}, errors.Wrap(ErrNoLayout, "no pieces")
	}

	runs := make([]strategyRun, len(o.strategies))
	run := func(i int) {
		s := o.strategies[i]
		panels, err := Pack(s.Sort(instances), p)
		runs[i] = strategyRun{strategy: s, err: err}
		if err == nil {
			runs[i].layout = Score(model.Layout{Strategy: s.String(), Panels: panels}, p.MinUsable)
		}
	}

	if o.parallel {
		var wg sync.WaitGroup
		wg.Add(len(runs))
		for i := range runs {
			go func() {
				defer wg.Done()
				run(i)
			}()
		}
		wg.Wait()
	} else {
		for i := range runs {
			run(i)
		}
	}

	var layouts []model.Layout
	var firstErr error
	for _, r := range runs {
		if r.err != nil {
			o.log.WithFields(logrus.Fields{
				"strategy": r.strategy.String(),
				"error":    r.err,
			}).Warn("strategy failed, skipping")
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		o.log.WithFields(logrus.Fields{
			"strategy": r.strategy.String(),
			"panels":   len(r.layout.Panels),
			"waste":    r.layout.WastePercent,
			"usable":   r.layout.UsableWaste,
		}).Debug("strategy finished")
		layouts = append(layouts, r.layout)
	}

	if len(layouts) == 0 {
		return model.LayoutSet{}, errors.WithStack(&noLayoutError{first: firstErr})
	}

	RankLayouts(layouts)
	return model.LayoutSet{Layouts: Dedupe(layouts)}, nil
}

// RankLayouts sorts layouts in place: fewer panels first, then more usable
// waste, then lower waste percentage. Equal layouts keep strategy order.
func RankLayouts(layouts []model.Layout) {
	sort.SliceStable(layouts, func(i, j int) bool {
		a, b := layouts[i], layouts[j]
		if len(a.Panels) != len(b.Panels) {
			return len(a.Panels) < len(b.Panels)
		}
		if a.UsableWaste != b.UsableWaste {
			return a.UsableWaste > b.UsableWaste
		}
		return a.WastePercent < b.WastePercent
	})
}

// Dedupe drops layouts structurally identical to an earlier one.
func Dedupe(layouts []model.Layout) []model.Layout {
	seen := make(map[string]bool, len(layouts))
	out := make([]model.Layout, 0, len(layouts))
	for _, l := range layouts {
		sig := l.Signature()
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, l)
	}
	return out
}
