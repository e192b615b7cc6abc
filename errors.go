package polyasm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fatal categories in §7 of the design: malformed input, an invariant
// violated at construction time, and a fatal (non-filterable) reference to a missing segment.
var (
	// ErrMalformedInput is wrapped by loaders on an unreadable header, a non-integer id, or a
	// missing required field.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvariantViolation is wrapped when a link's overlap does not match the prefix/suffix
	// at a merge or junction-repair point.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrMissingSegment is wrapped when a link or path references a segment that was never
	// loaded or was already filtered, and the reference cannot be safely dropped.
	ErrMissingSegment = errors.New("reference to missing segment")
)

// MalformedInputError names the source and line for a malformed-input error, per §7.1. Exported
// so the io loaders (io/gfa, io/fastg, io/spadespaths) build their errors through it rather than
// keeping their own copy.
func MalformedInputError(sourceName string, line int, reason string) error {
	return fmt.Errorf("%s:%d: %s: %w", sourceName, line, reason, ErrMalformedInput)
}

// invariantViolationError reports a fatal assertion failure at a merge or junction-repair point,
// per §7.2. Callers that hit this should treat it as indicating upstream corruption.
func invariantViolationError(context string) error {
	return fmt.Errorf("%s: %w", context, ErrInvariantViolation)
}

// MissingSegmentError reports a fatal (non-droppable) reference to an absent segment, per §7.3.
// ref may be signed; the message reports its unsigned form. Exported for the same reason as
// MalformedInputError above.
func MissingSegmentError(sourceName string, line, ref int) error {
	if ref < 0 {
		ref = -ref
	}
	return fmt.Errorf("%s:%d: %w: segment %d", sourceName, line, ErrMissingSegment, ref)
}
