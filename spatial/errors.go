package spatial

import (
	"errors"
)

// Sentinel errors
var (
	ErrUnknownRolloff = errors.New("unknown rolloff model")
	ErrNoSuchSource   = errors.New("no such source")
)
