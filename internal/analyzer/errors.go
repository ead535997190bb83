package analyzer

import "errors"

var (
	errEmptyResponse    = errors.New("empty response text")
	errMissingFields    = errors.New("missing required fields")
	errUnknownDirection = errors.New("direction is not BUY or SELL")
)
