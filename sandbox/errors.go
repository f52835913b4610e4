package sandbox

import "errors"

var (
	// ErrUnknownImport rejects a module importing anything outside the intrinsic table
	ErrUnknownImport = errors.New("unknown import")

	// ErrSignatureMismatch rejects an intrinsic imported or invoked with the wrong shape
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrMissingEntry rejects a module without the entry point
	ErrMissingEntry = errors.New("missing entry point")

	// ErrCancelled reports a bot stopped by its context
	ErrCancelled = errors.New("bot cancelled")
)
