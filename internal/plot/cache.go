package plot

import "log/slog"

// RegenerateFunc derives draw geometry from raw data for a viewport. It must
// be a pure function of its inputs.
type RegenerateFunc[R, D any] func(raw R, viewport CanvasParams, m TextMeasurer) (D, error)

// Cache owns a plot's raw data and its derived draw model. The draw model is
// regenerated only when the raw data is replaced or the viewport changes;
// pan, zoom and hover never trigger it.
type Cache[R, D any] struct {
	regen RegenerateFunc[R, D]

	raw    R
	hasRaw bool

	draw     D
	hasDraw  bool
	viewport CanvasParams
	dirty    bool

	// failed remembers the viewport of the last failed attempt so a broken
	// input is not retried on every paint.
	failed    *CanvasParams
	failedErr error

	// Regenerations counts successful regenerate calls.
	Regenerations int
}

func NewCache[R, D any](regen RegenerateFunc[R, D]) *Cache[R, D] {
	return &Cache[R, D]{regen: regen}
}

// SetRaw replaces the raw data wholesale.
func (c *Cache[R, D]) SetRaw(raw R) {
	c.raw = raw
	c.hasRaw = true
	c.dirty = true
	c.failed = nil
}

func (c *Cache[R, D]) Raw() (R, bool) { return c.raw, c.hasRaw }

// Draw returns the last successfully computed draw model.
func (c *Cache[R, D]) Draw() (D, bool) { return c.draw, c.hasDraw }

// Refresh makes sure the draw model matches viewport. On failure the
// previous draw model is kept and the error returned; ok reports whether
// any draw model is available.
func (c *Cache[R, D]) Refresh(viewport CanvasParams, m TextMeasurer) (draw D, ok bool, err error) {
	if !c.hasRaw {
		return c.draw, c.hasDraw, nil
	}
	if c.hasDraw && !c.dirty && c.viewport.Equal(viewport) {
		return c.draw, true, nil
	}
	if c.failed != nil && c.failed.Equal(viewport) {
		return c.draw, c.hasDraw, c.failedErr
	}
	d, err := c.regen(c.raw, viewport, m)
	if err != nil {
		c.failed, c.failedErr = &viewport, err
		slog.Warn("regenerate failed, keeping previous draw model",
			"err", err, "width", viewport.Width, "height", viewport.Height)
		return c.draw, c.hasDraw, err
	}
	c.draw = d
	c.hasDraw = true
	c.viewport = viewport
	c.dirty = false
	c.failed = nil
	c.Regenerations++
	return d, true, nil
}
