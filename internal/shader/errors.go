package shader

import "errors"

var (
	// ErrUnknownSet indicates a requested set that the registry does not hold.
	ErrUnknownSet = errors.New("unknown set")

	// ErrUnknownMaterial indicates a requested material missing from a set.
	ErrUnknownMaterial = errors.New("unknown material")
)
