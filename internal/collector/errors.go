package collector

import (
	"context"
	"errors"
	"fmt"

	"AfriQuoteFeed/internal/model"
)

// ProviderError is an explicit error object returned in the chart payload.
type ProviderError struct {
	Symbol      model.Symbol
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("yahoo %s: provider error %s", e.Symbol, e.Code)
	}
	return fmt.Sprintf("yahoo %s: provider error %s: %s", e.Symbol, e.Code, e.Description)
}

// TransportError covers network failures, non-2xx statuses and unreadable bodies.
type TransportError struct {
	Symbol     model.Symbol
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("yahoo %s: status %d: %v", e.Symbol, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("yahoo %s: %v", e.Symbol, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PayloadError is a success response whose shape cannot be normalized.
type PayloadError struct {
	Symbol model.Symbol
	Reason string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("yahoo %s: malformed payload: %s", e.Symbol, e.Reason)
}

// FailureKind labels why a symbol yielded no series.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureProvider  FailureKind = "provider"
	FailureTransport FailureKind = "transport"
	FailurePayload   FailureKind = "payload"
	FailureCanceled  FailureKind = "canceled"
	FailureUnknown   FailureKind = "unknown"
)

// Classify maps a fetch error to its FailureKind.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return FailureCanceled
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return FailureProvider
	}
	var te *TransportError
	if errors.As(err, &te) {
		return FailureTransport
	}
	var ple *PayloadError
	if errors.As(err, &ple) {
		return FailurePayload
	}
	return FailureUnknown
}
