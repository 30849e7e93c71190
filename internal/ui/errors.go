package ui

import "errors"

// ErrBadRequest is returned when a pagination control is constructed with a
// missing or non-positive item total, or with an empty base URL. Construction
// errors wrap it, so callers should test with errors.Is.
var ErrBadRequest = errors.New("bad request")
