package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for both interactive and machine-readable output.
type ErrorKind string

const (
	NoSigningKey               ErrorKind = "NO_SIGNING_KEY"
	InvalidKeyFormat           ErrorKind = "INVALID_KEY_FORMAT"
	MissingSafeAddress         ErrorKind = "MISSING_SAFE_ADDRESS"
	PriceOutOfRange            ErrorKind = "PRICE_OUT_OF_RANGE"
	MissingExpiration          ErrorKind = "MISSING_EXPIRATION"
	SigningFailed              ErrorKind = "SIGNING_FAILED"
	CredentialDerivationFailed ErrorKind = "CREDENTIAL_DERIVATION_FAILED"
	EncodingFailed             ErrorKind = "ENCODING_FAILED"
)

// CLIError carries an error kind alongside a human-readable message.
// All kinds are terminal for the command or order they arise in.
type CLIError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// Is matches against another *CLIError by kind, so callers can use
// errors.Is(err, &CLIError{Kind: NoSigningKey}).
func (e *CLIError) Is(target error) bool {
	var t *CLIError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// NewError builds a CLIError with a formatted message.
func NewError(kind ErrorKind, format string, args ...interface{}) *CLIError {
	return &CLIError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a CLIError wrapping an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...interface{}) *CLIError {
	return &CLIError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	var e *CLIError
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// OrderError represents a per-order failure reported by the CLOB API.
// Batch submissions report one of these per failed item.
type OrderError struct {
	Code    string // API error code or internal error code
	Message string // Human-readable error message
	OrderID string // Order ID if available
}

func (e *OrderError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("order %s failed: %s (%s)", e.OrderID, e.Message, e.Code)
	}

	return fmt.Sprintf("order failed: %s (%s)", e.Message, e.Code)
}

// Known Polymarket CLOB API error codes
const (
	ErrInvalidMinTickSize = "INVALID_ORDER_MIN_TICK_SIZE"
	ErrNotEnoughBalance   = "INVALID_ORDER_NOT_ENOUGH_BALANCE"
	ErrFOKNotFilled       = "FOK_ORDER_NOT_FILLED_ERROR"
	ErrMarketNotReady     = "MARKET_NOT_READY"
	ErrUnmatched          = "UNMATCHED"
	ErrUnknownStatus      = "UNKNOWN_STATUS"
)
