package internaltypes

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrUnsupportedIntent      = errors.New("unsupported intent")
	ErrInsufficientCandidates = errors.New("insufficient candidates")
)
