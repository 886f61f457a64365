package analysis

import "errors"

// ErrInvalidInput covers every malformed-input case the analysis functions
// reject: empty or mismatched channel data, a non-positive sample rate, a
// frame size that is not a positive power of two, a non-positive hop size and
// a non-positive coefficient count. Callers can test for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
