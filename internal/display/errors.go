package display

import "errors"

// Sentinel errors for the standard failure classes. Callers match them with
// errors.Is; wrapped forms carry the offending detail.
var (
	ErrNilArgument    = errors.New("null argument")
	ErrDisposed       = errors.New("device is disposed")
	ErrWidgetDisposed = errors.New("widget is disposed")
	ErrWrongThread    = errors.New("invalid thread access")
	ErrNoHandles      = errors.New("no more handles")
	ErrFailedExec     = errors.New("failed to execute runnable")
)
