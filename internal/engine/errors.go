package engine

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/piwi3910/PanelCut/internal/model"
)

var (
	// ErrInvalidInput is the cause of every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPieceTooLarge means a piece does not fit on an empty panel.
	ErrPieceTooLarge = errors.New("piece does not fit on an empty panel")
	// ErrNoLayout means every strategy failed.
	ErrNoLayout = errors.New("no strategy produced a layout")
)

// ValidationError reports input rejected before any packing attempt.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Cause implements the pkg/errors causer interface.
func (e *ValidationError) Cause() error { return ErrInvalidInput }

// PlacementError identifies the piece that could not be placed.
type PlacementError struct {
	Piece  model.Piece
	Width  float64 // effective panel width
	Height float64 // effective panel height
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("piece %q (%g×%g) cannot be placed on an empty %g×%g panel",
		e.Piece.Label(), e.Piece.Width, e.Piece.Height, e.Width, e.Height)
}

func (e *PlacementError) Unwrap() error { return ErrPieceTooLarge }

// Cause implements the pkg/errors causer interface.
func (e *PlacementError) Cause() error { return ErrPieceTooLarge }

// noLayoutError is returned when every strategy failed. It unwraps to both
// ErrNoLayout and the first strategy failure, so a *PlacementError naming the
// piece stays reachable with errors.As.
type noLayoutError struct {
	first error
}

func (e *noLayoutError) Error() string {
	return fmt.Sprintf("%s: %v", ErrNoLayout, e.first)
}

func (e *noLayoutError) Unwrap() []error { return []error{ErrNoLayout, e.first} }

func invalid(format string, args ...any) error {
	return errors.WithStack(&ValidationError{Reason: fmt.Sprintf(format, args...)})
}
