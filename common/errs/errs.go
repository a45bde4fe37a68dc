package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when the caller supplied a malformed or
	// out-of-range value. Nothing is mutated for these errors.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned for unknown drivers, handlers or config values.
	Unsupported = ErrorKind("Unsupported")

	// Duplicate is returned when a uniqueness constraint is violated
	// (code collision on mint, repeated gateway reference).
	Duplicate = ErrorKind("Duplicate")

	// AlreadyConsumed is returned to losers of a recharge code redemption
	// race. Expected concurrency outcome, not a fault.
	AlreadyConsumed = ErrorKind("Already Consumed")

	// InsufficientBalance is returned when a debit would take an account
	// balance below zero. The debit is not applied.
	InsufficientBalance = ErrorKind("Insufficient Balance")

	// Exhausted is returned when the code-uniqueness retry budget runs out.
	// It implies the code space is exhausted or the RNG is degenerate, so it
	// must be escalated rather than surfaced as a user error.
	Exhausted = ErrorKind("Exhausted")

	// Timeout is returned when a bounded operation did not finish in time.
	Timeout = ErrorKind("Timeout")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
