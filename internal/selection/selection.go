// Package selection is the shared hover and selection store that every plot
// widget publishes to and reads from.
package selection

import (
	"log/slog"
	"maps"

	"scatterview/internal/plot"
)

// Service holds the selected and hovered point ids. It is not safe for
// concurrent use; the UI event loop owns it.
type Service struct {
	selected plot.PMCSet
	hover    plot.PMC

	observers map[int]func()
	nextID    int
}

func New() *Service {
	return &Service{
		selected:  plot.PMCSet{},
		hover:     plot.NoPMC,
		observers: make(map[int]func()),
	}
}

func (s *Service) SetHoverPoint(id plot.PMC) {
	if id == s.hover {
		return
	}
	s.hover = id
	s.notify()
}

func (s *Service) HoverPoint() plot.PMC { return s.hover }

// SetSelection replaces the selection with a snapshot of ids.
func (s *Service) SetSelection(ids plot.PMCSet) {
	if maps.Equal(s.selected, ids) {
		return
	}
	s.selected = ids.Clone()
	slog.Debug("selection changed", "count", len(s.selected))
	s.notify()
}

// Selection returns a snapshot of the selected ids.
func (s *Service) Selection() plot.PMCSet { return s.selected.Clone() }

func (s *Service) Clear() { s.SetSelection(plot.PMCSet{}) }

// OnSelectionChanged registers fn for selection and hover changes.
func (s *Service) OnSelectionChanged(fn func()) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

func (s *Service) notify() {
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.observers[i]; ok {
			fn()
		}
	}
}
