// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrDataUnavailable means the provider returned no usable sample for an
	// instrument or for the exchange rate. Recoverable: the instrument or
	// feature is skipped for the current cycle.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrRateUnavailable means the GBP/USD exchange rate could not be
	// fetched. Fatal for USD-native instruments, soft for GBP-native ones.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrConfigMissing means the configuration file was not found. The
	// process exits before doing any work.
	ErrConfigMissing = errors.New("configuration file not found")

	// ErrStoreCorrupt means a persisted JSON store could not be parsed.
	// Stores are not auto-repaired.
	ErrStoreCorrupt = errors.New("persisted store is malformed")

	// ErrDispatchFailed means a notification could not be delivered. The
	// cycle still completes and still persists its state.
	ErrDispatchFailed = errors.New("notification dispatch failed")
)

// DataError carries the symbol context for a provider or normalization
// failure.
type DataError struct {
	Symbol  string
	Message string
	Err     error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s]: %s: %v", e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s]: %s", e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(symbol, message string, err error) *DataError {
	return &DataError{
		Symbol:  symbol,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
