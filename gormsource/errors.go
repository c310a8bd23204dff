package gormsource

import "errors"

var (
	ErrBackwardUnsupported = errors.New("offset source cannot read backwards")
	ErrInvalidPosition     = errors.New("invalid source position")
)
