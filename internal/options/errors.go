package options

import "errors"

var (
	// ErrInvalidColor indicates a light color that is not six lowercase hex digits.
	ErrInvalidColor = errors.New("invalid light color")

	// ErrNegativeIntensity indicates a light intensity below zero.
	ErrNegativeIntensity = errors.New("negative light intensity")

	// ErrInvalidAlphaTest indicates an alpha test that is neither a known
	// function nor a fraction in [0,1].
	ErrInvalidAlphaTest = errors.New("invalid alpha test")

	// ErrOptionFile indicates an option file that could not be read or parsed.
	ErrOptionFile = errors.New("option file error")
)
