package history

import "errors"

// ErrNotFound indicates the requested plan doesn't exist.
var ErrNotFound = errors.New("not found")
