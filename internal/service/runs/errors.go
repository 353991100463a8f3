package runs

import "errors"

// Sentinel errors for the runs service layer.
var (
	ErrNotFound     = errors.New("run not found")
	ErrInvalidDraft = errors.New("invalid draft")
)
