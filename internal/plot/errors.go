package plot

import "errors"

var (
	// ErrDegenerate marks input that produces no usable geometry: zero
	// ranges, no points, zero-sum ternary values, a lasso under 2 points.
	ErrDegenerate = errors.New("degenerate geometry")

	// ErrMisaligned marks companion value arrays that disagree in length or
	// point identity. Continuing would corrupt the point identity mapping.
	ErrMisaligned = errors.New("misaligned value arrays")

	// ErrNoViewport is returned when asked to lay out a zero-size canvas.
	ErrNoViewport = errors.New("empty viewport")
)
