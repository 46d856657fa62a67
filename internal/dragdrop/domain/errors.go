package domain

import (
	"context"
	"errors"
	"fmt"
	"net"

	schedulingDomain "github.com/felixgeelhaar/wayfarer/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ErrorKind categorizes a failed operation effect.
type ErrorKind string

const (
	NetworkError    ErrorKind = "NETWORK_ERROR"
	ValidationError ErrorKind = "VALIDATION_ERROR"
	ConflictError   ErrorKind = "CONFLICT_ERROR"
	PermissionError ErrorKind = "PERMISSION_ERROR"
	TimeoutError    ErrorKind = "TIMEOUT_ERROR"
	OfflineError    ErrorKind = "OFFLINE_ERROR"
	RateLimitError  ErrorKind = "RATE_LIMIT_ERROR"
	UnknownError    ErrorKind = "UNKNOWN_ERROR"
)

// DefaultMaxRetries bounds automatic retries for recoverable errors.
const DefaultMaxRetries = 3

// Sentinel errors surfaced by performers and transports.
var (
	// ErrPlacementRejected wraps a failed validation result.
	ErrPlacementRejected = errors.New("placement rejected by validation")
	// ErrRemoteUnavailable means the remote store cannot be reached,
	// including a tripped circuit breaker.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	// ErrPermissionDenied means the remote store refused the operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRateLimited means the remote store asked us to back off.
	ErrRateLimited = errors.New("rate limited")
)

// Classify maps an effect failure to its error kind.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return UnknownError
	case errors.Is(err, ErrPlacementRejected),
		errors.Is(err, schedulingDomain.ErrInvalidTimeRange),
		errors.Is(err, schedulingDomain.ErrActivityTooShort),
		errors.Is(err, schedulingDomain.ErrActivityPastMidnight),
		errors.Is(err, ErrInvalidDragItem):
		return ValidationError
	case errors.Is(err, schedulingDomain.ErrActivityOverlap):
		return ConflictError
	case errors.Is(err, ErrPermissionDenied):
		return PermissionError
	case errors.Is(err, ErrRateLimited):
		return RateLimitError
	case errors.Is(err, ErrRemoteUnavailable):
		return OfflineError
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutError
	default:
		var netErr net.Error
		if errors.As(err, &netErr) {
			if netErr.Timeout() {
				return TimeoutError
			}
			return NetworkError
		}
		return UnknownError
	}
}

// IsRecoverable reports whether errors of this kind are worth retrying.
// Validation and conflict failures are logical rejections, not transient
// faults, and must be surfaced immediately.
func (k ErrorKind) IsRecoverable() bool {
	switch k {
	case ValidationError, ConflictError:
		return false
	default:
		return true
	}
}

// DragError is the tracked failure of an operation effect. It is mutated
// in place while retries are attempted and discarded once resolved,
// exhausted, or dismissed.
type DragError struct {
	ID          uuid.UUID
	Kind        ErrorKind
	Message     string
	Operation   *Operation
	Recoverable bool
	RetryCount  int
	MaxRetries  int
	cause       error
}

// NewDragError classifies an effect failure for the given operation.
func NewDragError(op *Operation, err error) *DragError {
	kind := Classify(err)
	return &DragError{
		ID:          uuid.New(),
		Kind:        kind,
		Message:     err.Error(),
		Operation:   op,
		Recoverable: kind.IsRecoverable(),
		RetryCount:  0,
		MaxRetries:  DefaultMaxRetries,
		cause:       err,
	}
}

// Error implements the error interface.
func (e *DragError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *DragError) Unwrap() error {
	return e.cause
}

// Exhausted reports whether the retry budget is used up.
func (e *DragError) Exhausted() bool {
	return e.RetryCount >= e.MaxRetries
}

// MarkExhausted makes the error terminal once retries are spent.
func (e *DragError) MarkExhausted() {
	e.Recoverable = false
	e.Message += " (Max retries exceeded)"
}
