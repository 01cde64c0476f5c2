// Package session holds the state of one planning job: the panel
// configuration, the piece list and the generated layouts. A Session is an
// immutable value; every operation returns a new Session and leaves the
// receiver untouched.
package session

import (
	"slices"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/model"
)

// Session is the state of one planning job.
type Session struct {
	config  model.PanelConfig
	pieces  []model.Piece
	layouts model.LayoutSet
	panels  []model.Panel
}

// New starts an empty session.
func New(cfg model.PanelConfig) Session {
	return Session{config: cfg}
}

// Config returns the panel configuration.
func (s Session) Config() model.PanelConfig {
	return s.config
}

// Pieces returns a copy of the piece list.
func (s Session) Pieces() []model.Piece {
	return slices.Clone(s.pieces)
}

// Layouts returns the ranked layouts of the last successful Generate.
func (s Session) Layouts() model.LayoutSet {
	return s.layouts
}

// Panels returns a copy of the panels of the selected layout.
func (s Session) Panels() []model.Panel {
	out := make([]model.Panel, len(s.panels))
	for i, p := range s.panels {
		out[i] = p.Clone()
	}
	return out
}

// HasPlan reports whether the session has panels to show.
func (s Session) HasPlan() bool {
	return len(s.panels) > 0
}

// Current returns the selected layout.
func (s Session) Current() (model.Layout, bool) {
	return s.layouts.Selected()
}

// WithPiece appends a piece. The current plan is kept until the next
// Generate.
func (s Session) WithPiece(p model.Piece) Session {
	s.pieces = append(slices.Clone(s.pieces), p)
	return s
}

// WithPieces appends several pieces at once.
func (s Session) WithPieces(ps []model.Piece) Session {
	s.pieces = append(slices.Clone(s.pieces), ps...)
	return s
}

// WithoutPiece removes the piece with the given id. The second result is
// false when no such piece exists.
func (s Session) WithoutPiece(id string) (Session, bool) {
	i := slices.IndexFunc(s.pieces, func(p model.Piece) bool { return p.ID == id })
	if i < 0 {
		return s, false
	}
	s.pieces = slices.Delete(slices.Clone(s.pieces), i, i+1)
	return s, true
}

// WithConfig replaces the panel configuration.
func (s Session) WithConfig(cfg model.PanelConfig) Session {
	s.config = cfg
	return s
}

// Generate validates and plans the piece list and selects the best layout.
// On error the receiver is returned unchanged, previous layouts included.
func (s Session) Generate(o *engine.Optimizer) (Session, error) {
	set, err := o.Plan(s.pieces, s.config)
	if err != nil {
		return s, err
	}
	panels, err := set.Select(0)
	if err != nil {
		return s, err
	}
	s.layouts = set
	s.panels = panels
	return s, nil
}

// Select switches to another ranked layout.
func (s Session) Select(index int) (Session, error) {
	panels, err := s.layouts.Select(index)
	if err != nil {
		return s, err
	}
	s.layouts.Current = index
	s.panels = panels
	return s, nil
}

// Entry records the current plan for the history.
func (s Session) Entry() history.Entry {
	return history.NewEntry(s.config, s.pieces, s.panels)
}

// FromHistory reopens a saved plan as it was generated: configuration, pieces
// and panels. The saved panels become a single scored layout.
func FromHistory(e history.Entry) Session {
	cfg := e.Config()
	layout := engine.Score(model.Layout{
		Strategy: "history",
		Panels:   e.Panels,
	}, cfg.MinUsable())

	s := Session{
		config:  cfg,
		pieces:  slices.Clone(e.Pieces),
		layouts: model.LayoutSet{Layouts: []model.Layout{layout}},
	}
	s.panels, _ = s.layouts.Select(0)
	return s
}

// ForEditing restores only the configuration and pieces of a saved plan so
// they can be changed and generated again.
func ForEditing(e history.Entry) Session {
	return Session{
		config: e.Config(),
		pieces: slices.Clone(e.Pieces),
	}
}
