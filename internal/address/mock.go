package address

import (
	"context"
)

// MockValidator is a test implementation of Validator.
type MockValidator struct {
	// Provider is the name the mock reports. Defaults to ProviderGoogle.
	Provider Provider

	// ValidateFunc is invoked by Validate. When nil, Validate returns a
	// VALID outcome with no notes.
	ValidateFunc func(ctx context.Context, addressText string) (*Outcome, error)

	// Calls counts Validate invocations, for call-count assertions.
	Calls int
}

// NewMockValidator creates a mock validator reporting the given provider name.
func NewMockValidator(p Provider) *MockValidator {
	return &MockValidator{Provider: p}
}

// Name identifies the provider.
func (m *MockValidator) Name() Provider {
	if m.Provider == "" {
		return ProviderGoogle
	}
	return m.Provider
}

// Validate delegates to ValidateFunc or returns a default VALID outcome.
func (m *MockValidator) Validate(ctx context.Context, addressText string) (*Outcome, error) {
	m.Calls++
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, addressText)
	}
	return newOutcome(m.Name()), nil
}
