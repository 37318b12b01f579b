package snfspectra

import "errors"

// Sentinel errors shared by every package. Callers wrap them with %w so that
// errors.Is works across package boundaries.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrBinningMismatch = errors.New("binning mismatch")
	ErrDegenerateDecay = errors.New("degenerate decay chain")
)
