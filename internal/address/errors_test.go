package address_test

import (
	"errors"
	"testing"

	"github.com/matheusrod92/address-validator/internal/address"
	"github.com/stretchr/testify/assert"
)

func TestProviderError_Error(t *testing.T) {
	err := address.NewAPIError(address.ProviderSmarty, 401, `{"errors": []}`)
	assert.Equal(t, "smarty: unexpected status 401", err.Error())

	wrapped := address.NewTransportError(address.ProviderGoogle, errors.New("dial tcp: connection refused"))
	assert.Equal(t, "google: request failed: dial tcp: connection refused", wrapped.Error())
}

func TestAllProvidersFailedError_CombinesMessages(t *testing.T) {
	err := &address.AllProvidersFailedError{
		Errs: []error{
			address.NewTransportError(address.ProviderGoogle, errors.New("timeout")),
			address.NewAPIError(address.ProviderSmarty, 500, "oops"),
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "google: request failed: timeout")
	assert.Contains(t, msg, "smarty: unexpected status 500")
	assert.Contains(t, msg, "; ")
}

func TestIsNotConfigured(t *testing.T) {
	assert.True(t, address.IsNotConfigured(address.NewNotConfiguredError(address.ProviderGoogle)))
	assert.False(t, address.IsNotConfigured(address.NewTransportError(address.ProviderGoogle, errors.New("x"))))
	assert.False(t, address.IsNotConfigured(errors.New("plain")))
}
