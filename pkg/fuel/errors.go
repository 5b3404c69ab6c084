package fuel

import "errors"

// Domain-level error values returned when constructing an Engine.
var (
	ErrInvalidPriceConfig  = errors.New("invalid price config")
	ErrInvalidEngineConfig = errors.New("invalid engine config")
)
