package plot

// Model is the per-widget plot model: raw data, the cached draw model and
// the transient UI state. One exists per mounted plot widget.
type Model[R, D any] struct {
	*Cache[R, D]
	State State
}

func NewModel[R, D any](regen RegenerateFunc[R, D]) *Model[R, D] {
	return &Model[R, D]{Cache: NewCache(regen)}
}

// SetRaw replaces the raw data and drops hover and lasso state, whose
// indices refer to the old data.
func (m *Model[R, D]) SetRaw(raw R) {
	m.Cache.SetRaw(raw)
	m.State.ClearTransient()
}
