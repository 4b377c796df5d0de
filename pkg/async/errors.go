package async

import "errors"

// ErrAbsent is returned by Await on a Value that was never provided.
var ErrAbsent = errors.New("async: value not provided")
