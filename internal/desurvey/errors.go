package desurvey

import "errors"

var (
	// ErrInsufficientStations indicates an empty survey station list.
	ErrInsufficientStations = errors.New("at least one survey station is required")

	// ErrNonMonotonicDepth indicates station depths that are not strictly
	// increasing.
	ErrNonMonotonicDepth = errors.New("survey station depths must be strictly increasing")

	// ErrInvalidStep indicates a non-positive resampling step.
	ErrInvalidStep = errors.New("resample step must be greater than zero")
)
