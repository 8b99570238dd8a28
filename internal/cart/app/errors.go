package app

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("stock backend unavailable")
	ErrStorageCorrupt     = errors.New("stored cart is corrupt")

	// ErrInvalidDiscountCode is a validation error: errors.Is(err, ErrValidation) holds.
	ErrInvalidDiscountCode = fmt.Errorf("%w: invalid discount code", ErrValidation)

	// ErrStateNotFound is returned by StateStorage.Load for a missing key.
	ErrStateNotFound = errors.New("cart state not found")
)
