package models

import "errors"

// Error kinds shared between the stores, services, and API layer. All of them
// are recoverable by the caller; none should take the process down.
var (
	// ErrCartConflict reports a mixed quotable/non-quotable cart. The cart has
	// already been cleared by the time the caller sees it.
	ErrCartConflict = errors.New("mixed quotable/non-quotable items")

	// ErrIllegalTransition reports a state machine operation invoked from a
	// state that does not allow it. The operation is a no-op.
	ErrIllegalTransition = errors.New("illegal quote status transition")

	// ErrQuoteNotReady reports a send attempt for an order that has not been
	// priced yet, or whose quote was cancelled.
	ErrQuoteNotReady = errors.New("quote is not ready to be sent")

	// ErrNotFound reports an unknown order or product identifier.
	ErrNotFound = errors.New("not found")
)
