package address

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind distinguishes why a provider call failed. The orchestrator treats
// transport and API failures identically for fallback purposes, but callers
// map them to different HTTP statuses than a missing credential.
type ErrorKind string

const (
	// KindNotConfigured means the adapter's credentials are absent or still
	// hold the placeholder value. Never retried; surfaced as 503.
	KindNotConfigured ErrorKind = "not_configured"

	// KindTransport means the network call itself failed.
	KindTransport ErrorKind = "transport"

	// KindAPI means the provider answered with a non-2xx HTTP status.
	KindAPI ErrorKind = "api"
)

// ProviderError is a failure from a single provider adapter.
type ProviderError struct {
	Provider Provider
	Kind     ErrorKind
	Message  string

	// StatusCode and Body are only set for KindAPI.
	StatusCode int
	Body       string

	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewNotConfiguredError reports missing or placeholder credentials.
func NewNotConfiguredError(p Provider) *ProviderError {
	return &ProviderError{
		Provider: p,
		Kind:     KindNotConfigured,
		Message:  "credentials not configured",
	}
}

// NewTransportError wraps a network-level failure.
func NewTransportError(p Provider, err error) *ProviderError {
	return &ProviderError{
		Provider: p,
		Kind:     KindTransport,
		Message:  "request failed",
		Err:      err,
	}
}

// NewAPIError reports a non-2xx provider response, preserving the raw status
// and body for diagnosability.
func NewAPIError(p Provider, statusCode int, body string) *ProviderError {
	return &ProviderError{
		Provider:   p,
		Kind:       KindAPI,
		Message:    fmt.Sprintf("unexpected status %d", statusCode),
		StatusCode: statusCode,
		Body:       body,
	}
}

// IsNotConfigured reports whether err is a missing-credentials failure.
func IsNotConfigured(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == KindNotConfigured
}

// allFailedSeparator joins the individual provider messages inside an
// AllProvidersFailedError. Fixed so callers can rely on the format.
const allFailedSeparator = "; "

// AllProvidersFailedError is returned by the orchestrator when the fallback
// path is exhausted. It concatenates every underlying failure so a single log
// line names them all.
type AllProvidersFailedError struct {
	Errs []error
}

// Error implements the error interface.
func (e *AllProvidersFailedError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return "all providers failed: " + strings.Join(msgs, allFailedSeparator)
}

// Unwrap exposes the underlying errors to errors.Is and errors.As.
func (e *AllProvidersFailedError) Unwrap() []error {
	return e.Errs
}

// placeholderPrefix marks credentials that were never replaced from the
// sample environment file (e.g. "your-google-api-key"). Treating them as
// unconfigured keeps the adapter from sending them to the live API.
const placeholderPrefix = "your-"

// credentialConfigured reports whether v looks like a real credential.
func credentialConfigured(v string) bool {
	return v != "" && !strings.HasPrefix(v, placeholderPrefix)
}
