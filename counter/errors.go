package counter

import "errors"

var (
	// ErrInvalidRange reports a non-positive cycle length or any other broken
	// window invariant.
	ErrInvalidRange = errors.New("invalid counter range")

	// ErrMalformedEncoding reports stored text that is not three base-10
	// integers separated by ':', or an encoding wider than the column.
	ErrMalformedEncoding = errors.New("malformed counter encoding")

	// ErrTypeMismatch reports coercion input that is neither a counter, an
	// integer nor null.
	ErrTypeMismatch = errors.New("value cannot be coerced to a counter")
)
