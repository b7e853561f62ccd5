package sourceafis

import "errors"

var (
	// ErrNilTemplate is returned when a nil probe template is passed.
	ErrNilTemplate = errors.New("template is nil")
)
