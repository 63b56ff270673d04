package plot

import "sort"

// PMC identifies one physical sample location.
type PMC int32

// NoPMC means "nothing".
const NoPMC PMC = -1

// PMCSet is a set of point identifiers. Sets handed to or returned from a
// Selection are snapshots; callers must not mutate them afterwards.
type PMCSet map[PMC]struct{}

// NewPMCSet returns a set holding ids.
func NewPMCSet(ids ...PMC) PMCSet {
	s := make(PMCSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s PMCSet) Has(id PMC) bool {
	_, ok := s[id]
	return ok
}

func (s PMCSet) Clone() PMCSet {
	out := make(PMCSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Union returns a new set with the members of s and o.
func (s PMCSet) Union(o PMCSet) PMCSet {
	out := s.Clone()
	for id := range o {
		out[id] = struct{}{}
	}
	return out
}

// Minus returns a new set with the members of s not in o.
func (s PMCSet) Minus(o PMCSet) PMCSet {
	out := make(PMCSet, len(s))
	for id := range s {
		if !o.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in ascending order.
func (s PMCSet) Sorted() []PMC {
	out := make([]PMC, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Selection is the shared hover/selection collaborator. Plots only emit
// intents through it; they never own the global selection.
type Selection interface {
	SetHoverPoint(id PMC)
	HoverPoint() PMC
	SetSelection(ids PMCSet)
	Selection() PMCSet
	OnSelectionChanged(fn func()) (cancel func())
}

// Value is one entry of a per-region query result.
type Value struct {
	PMC    PMC
	Value  float64
	IsNull bool
}
