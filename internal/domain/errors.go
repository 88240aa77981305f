package domain

import "github.com/pkg/errors"

var (
	// ErrDataUnavailable input catalog or market snapshot is missing or malformed.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidOverride override value is negative or not a number.
	ErrInvalidOverride = errors.New("invalid override")
	// ErrRecipeNotFound no recipe with the requested identifier.
	ErrRecipeNotFound = errors.New("recipe not found")
)
