package fraud

import "errors"

var (
	// ErrValidation marks caller-supplied transaction fields as malformed.
	// Surfaces as a rejected request; the transaction is never scored.
	ErrValidation = errors.New("invalid transaction input")

	// ErrModelLoad marks a missing or corrupt model artifact. Fatal at
	// startup; the process must not begin serving without a bundle.
	ErrModelLoad = errors.New("model bundle load failed")

	// ErrSchemaMismatch marks a feature vector whose shape does not match
	// the loaded bundle. A configuration fault, never a caller fault.
	ErrSchemaMismatch = errors.New("feature schema mismatch")
)
