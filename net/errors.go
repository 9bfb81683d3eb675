package net

import "errors"

// ErrNotStream indicates Listen was called on a socket that is not SOCK_STREAM.
var ErrNotStream = errors.New("socket is not a stream socket")
