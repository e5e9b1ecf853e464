// Package address validates and normalizes US mailing addresses by delegating
// to external verification providers. Each provider adapter translates its
// API's raw response into a canonical Outcome so callers never see
// provider-specific signals.
package address

import "context"

// Provider identifies one of the external validation services.
type Provider string

const (
	// ProviderGoogle is the Google Address Validation API adapter.
	ProviderGoogle Provider = "google"

	// ProviderSmarty is the Smarty US Street API adapter.
	ProviderSmarty Provider = "smarty"
)

// Status is the canonical verdict for a validated address, independent of
// which provider produced it.
type Status string

const (
	// StatusValid means the provider fully confirmed every component with no
	// corrections.
	StatusValid Status = "VALID"

	// StatusCorrected means the provider changed or standardized components,
	// or flagged plausible-but-unconfirmed data.
	StatusCorrected Status = "CORRECTED"

	// StatusUnverifiable means the provider could not confirm the address:
	// incomplete, non-US, suspicious, or no match at all.
	StatusUnverifiable Status = "UNVERIFIABLE"
)

// severity ranks statuses so classification rules can escalate but never
// downgrade a verdict. UNVERIFIABLE > CORRECTED > VALID.
func (s Status) severity() int {
	switch s {
	case StatusUnverifiable:
		return 2
	case StatusCorrected:
		return 1
	default:
		return 0
	}
}

// Escalate returns the more severe of s and other.
func (s Status) Escalate(other Status) Status {
	if other.severity() > s.severity() {
		return other
	}
	return s
}

// StandardizedAddress holds the normalized components of an address.
// A field is omitted when the provider could not resolve it; absence is
// preserved, never defaulted.
type StandardizedAddress struct {
	Number string `json:"number,omitempty"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// Outcome is the result of one validation call.
// Corrections and Warnings are append-only during classification; their order
// reflects the order checks were evaluated and is deterministic for a given
// provider payload.
type Outcome struct {
	Standardized StandardizedAddress `json:"standardized"`
	Status       Status              `json:"status"`
	Corrections  []string            `json:"corrections"`
	Warnings     []string            `json:"warnings"`
	Provider     Provider            `json:"provider"`
}

// newOutcome returns an Outcome with empty (non-nil) note slices so the JSON
// encoding is always [] rather than null.
func newOutcome(p Provider) *Outcome {
	return &Outcome{
		Status:      StatusValid,
		Corrections: []string{},
		Warnings:    []string{},
		Provider:    p,
	}
}

// Validator is implemented by each provider adapter.
// Validate issues exactly one outbound call per invocation: no caching, no
// retries. Implementations are stateless and safe for concurrent use.
type Validator interface {
	// Name identifies the provider for logging and orchestration.
	Name() Provider

	// Validate verifies a free-text US address and returns the canonical
	// outcome, or a *ProviderError when the provider could not be reached,
	// answered with a non-2xx status, or is not configured.
	Validate(ctx context.Context, addressText string) (*Outcome, error)
}
