package exports

import "errors"

// ErrStoreClosed is returned by Put after Close.
var ErrStoreClosed = errors.New("export store is closed")
