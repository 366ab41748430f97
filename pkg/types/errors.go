package types

import "errors"

// Transfer errors. User-facing failures are surfaced once through
// Host.Alert; callers match them with errors.Is.
var (
	ErrTransferSetupFailed = errors.New("transfer setup failed")
	ErrConversionFailed    = errors.New("record conversion failed")
	ErrIncompatibleVariant = errors.New("record variant is incompatible with destination")
	ErrWriteBlocked        = errors.New("destination rejects the record")
	ErrInsufficientSpace   = errors.New("insufficient space for batch")
	ErrEmptyDisallowed     = errors.New("destination disallows blank or placeholder records")
	ErrUserCancelled       = errors.New("cancelled by user")
	ErrUnrecognized        = errors.New("data is not a recognized record")
	ErrTransferInProgress  = errors.New("a transfer is already in progress")
	ErrNoDestination       = errors.New("drop has no destination slot")
)

// Store errors returned by container store backends.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrViewerNotFound  = errors.New("viewer not found")
	ErrViewerExists    = errors.New("viewer already exists")
	ErrOutOfRange      = errors.New("address out of range")
	ErrInvalidData     = errors.New("invalid record data")
)
