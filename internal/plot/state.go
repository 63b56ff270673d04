package plot

import "scatterview/internal/geom"

// LabelID names a clickable label: a ternary corner or a binary axis.
type LabelID string

// State is the transient UI state of one plot widget. It is never persisted.
type State struct {
	// Hover is the marker under the pointer, nil when none.
	Hover *DrawnPoint

	// LassoPoints is the in-progress lasso in world space, nil when idle.
	LassoPoints []geom.Point

	Cursor     Cursor
	HoverLabel LabelID

	// SelectModeExcludeRegion makes lasso and click remove points from the
	// current selection instead of replacing it.
	SelectModeExcludeRegion bool

	redraw bool
}

// RequestRedraw asks for one more paint. Repeated requests before the next
// paint collapse into one.
func (s *State) RequestRedraw() { s.redraw = true }

// TakeRedraw reports whether a paint was requested and clears the request.
func (s *State) TakeRedraw() bool {
	r := s.redraw
	s.redraw = false
	return r
}

// RedrawPending reports whether a paint is outstanding.
func (s *State) RedrawPending() bool { return s.redraw }

// ClearTransient drops hover and lasso state, used when the raw data is
// replaced and old indices no longer mean anything.
func (s *State) ClearTransient() {
	s.Hover = nil
	s.LassoPoints = nil
	s.HoverLabel = ""
	s.RequestRedraw()
}
