package domain

import (
	"errors"
	"fmt"
)

// Application error codes.
// These map to HTTP status codes and determine user-facing messages.
const (
	ECONFLICT     = "conflict"     // 409 - State-incompatible request (cancel after ship, duplicate SKU)
	EINTERNAL     = "internal"     // 500 - Unexpected fault (hide details)
	EINVALID      = "invalid"      // 400 - Validation or business-rule violation
	ENOTFOUND     = "not_found"    // 404 - Referenced entity absent
	EUNAUTHORIZED = "unauthorized" // 401 - Authentication required
	EFORBIDDEN    = "forbidden"    // 403 - Authenticated but not permitted
	EFAILURE      = "failure"      // 502 - Infrastructure or provider fault
)

// Error represents an application error with a code and message.
// It implements the error interface and supports error wrapping.
type Error struct {
	// Code is a machine-readable error code (e.g., EINVALID, ENOTFOUND).
	Code string

	// Reason is a stable, dot-scoped identifier for the specific failure
	// (e.g., "Order.EmptyBasket", "Product.LowStock").
	Reason string

	// Message is a human-readable error message safe to show to users.
	Message string

	// Op is the operation where the error occurred (e.g., "checkout.create").
	// Used for debugging and logging, not shown to users.
	Op string

	// Err is the underlying error, if any. Used for error wrapping.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the error code from an error.
// Returns EINTERNAL for nil or non-domain errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return EINVALID
	}

	return EINTERNAL
}

// ErrorReason extracts the stable reason identifier from an error.
func ErrorReason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// ErrorMessage extracts a user-facing message from an error.
// For internal errors, returns a generic message to avoid leaking details.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Code == EINTERNAL {
			return "An internal error occurred. Please try again later."
		}
		return e.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}

	// Unknown error type - hide details
	return "An internal error occurred. Please try again later."
}

// IsCode returns true if err has the given error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// =============================================================================
// Validation Errors (aggregate of all rule violations)
// =============================================================================

// ValidationError represents one or more field validation failures.
// Every violated rule is surfaced together, not just the first.
type ValidationError struct {
	// Fields maps field names to error messages.
	Fields map[string]string

	// Op is the operation where validation failed.
	Op string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for field, msg := range e.Fields {
			if e.Op != "" {
				return fmt.Sprintf("%s: %s: %s", e.Op, field, msg)
			}
			return fmt.Sprintf("%s: %s", field, msg)
		}
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: validation failed for %d fields", e.Op, len(e.Fields))
	}
	return fmt.Sprintf("validation failed for %d fields", len(e.Fields))
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(op, field, message string) error {
	return &ValidationError{
		Op:     op,
		Fields: map[string]string{field: message},
	}
}

// AddFieldError adds a field error to an existing ValidationError.
// If err is nil, creates a new ValidationError.
func AddFieldError(err error, field, message string) error {
	var ve *ValidationError
	if err != nil && errors.As(err, &ve) {
		ve.Fields[field] = message
		return ve
	}

	return &ValidationError{
		Fields: map[string]string{field: message},
	}
}

// IsValidationError returns true if err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationFields extracts field errors from a ValidationError.
// Returns nil if err is not a ValidationError.
func GetValidationFields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// =============================================================================
// Common errors (convenience)
// =============================================================================

// NotFound creates a not found error for a resource.
// Example: domain.NotFound("order.get", "Order.NotFound", "order not found")
func NotFound(op, reason, message string) error {
	return &Error{Code: ENOTFOUND, Reason: reason, Op: op, Message: message}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(op, message string) error {
	return &Error{Code: EUNAUTHORIZED, Op: op, Message: message}
}

// Forbidden creates a forbidden error.
func Forbidden(op, message string) error {
	return &Error{Code: EFORBIDDEN, Op: op, Message: message}
}

// Invalid creates a business-rule violation with a stable reason.
// Example: domain.Invalid("checkout.create", "Order.EmptyBasket", "Your basket is empty.")
func Invalid(op, reason, message string) error {
	return &Error{Code: EINVALID, Reason: reason, Op: op, Message: message}
}

// Conflict creates a conflict error.
func Conflict(op, reason, message string) error {
	return &Error{Code: ECONFLICT, Reason: reason, Op: op, Message: message}
}

// Failure creates an infrastructure/provider fault (e.g., payment provider timeout).
func Failure(err error, op, reason, message string) error {
	return &Error{Code: EFAILURE, Reason: reason, Op: op, Message: message, Err: err}
}

// Internal creates an internal error (wraps underlying error).
// The message shown to users will be generic; the underlying error is for logging.
func Internal(err error, op, message string) error {
	return &Error{Code: EINTERNAL, Op: op, Message: message, Err: err}
}
