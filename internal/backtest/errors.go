package backtest

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Every error leaving Run wraps exactly one of these, so
// callers can branch with errors.Is and map to a wire code with ErrorCode.
var (
	// ErrValidation: malformed or out-of-range config. Surfaced before any
	// simulation work, never retried.
	ErrValidation = errors.New("invalid backtest config")
	// ErrDataUnavailable: zero candles for the requested window. Distinct
	// from a successful zero-trade run.
	ErrDataUnavailable = errors.New("no candle data available")
	// ErrInsufficientHistory: candles present but fewer than the strategy's
	// indicator warm-up. Runs are rejected outright rather than silently
	// producing a zero-trade result.
	ErrInsufficientHistory = errors.New("insufficient history for warm-up")
	// ErrUpstream: the candle provider failed. No retry here; retrying is
	// the provider's business.
	ErrUpstream = errors.New("candle provider error")
)

// errorf wraps one of the sentinels with context.
func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}

// ErrorCode maps an engine error to a stable wire code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrDataUnavailable):
		return "DATA_UNAVAILABLE"
	case errors.Is(err, ErrInsufficientHistory):
		return "INSUFFICIENT_HISTORY"
	case errors.Is(err, ErrUpstream):
		return "UPSTREAM_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
