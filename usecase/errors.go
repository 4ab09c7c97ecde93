package usecase

import "errors"

// Error kinds surfaced by the core services. Handlers translate them with
// errors.Is into transport responses; read-path authorization failures are
// reported as ErrNotFound so inaccessible resources are never confirmed.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
)
