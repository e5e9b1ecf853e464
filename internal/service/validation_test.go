package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/matheusrod92/address-validator/internal/address"
	"github.com/matheusrod92/address-validator/internal/domain"
	"github.com/matheusrod92/address-validator/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcomeWithStatus(p address.Provider, s address.Status) *address.Outcome {
	return &address.Outcome{
		Status:      s,
		Corrections: []string{},
		Warnings:    []string{},
		Provider:    p,
	}
}

func newService(t *testing.T, primary, secondary *address.MockValidator) service.AddressValidationService {
	t.Helper()
	svc, err := service.NewAddressValidationService(primary, secondary, nil)
	require.NoError(t, err)
	return svc
}

func TestValidateAddress_ExplicitProvider(t *testing.T) {
	primary := address.NewMockValidator(address.ProviderGoogle)
	secondary := address.NewMockValidator(address.ProviderSmarty)
	secondary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
		return outcomeWithStatus(address.ProviderSmarty, address.StatusCorrected), nil
	}

	svc := newService(t, primary, secondary)

	outcome, err := svc.ValidateAddress(context.Background(), "123 Main St", address.ProviderSmarty)

	require.NoError(t, err)
	assert.Equal(t, address.ProviderSmarty, outcome.Provider)
	assert.Equal(t, 0, primary.Calls, "explicit provider must not touch the other adapter")
	assert.Equal(t, 1, secondary.Calls)
}

func TestValidateAddress_ExplicitProviderErrorPropagates(t *testing.T) {
	primary := address.NewMockValidator(address.ProviderGoogle)
	primary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
		return nil, address.NewAPIError(address.ProviderGoogle, 500, "boom")
	}
	secondary := address.NewMockValidator(address.ProviderSmarty)

	svc := newService(t, primary, secondary)

	_, err := svc.ValidateAddress(context.Background(), "123 Main St", address.ProviderGoogle)

	require.Error(t, err)
	var pe *address.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, secondary.Calls, "explicit provider errors must not trigger fallback")
}

func TestValidateAddress_UnknownProvider(t *testing.T) {
	svc := newService(t, address.NewMockValidator(address.ProviderGoogle), address.NewMockValidator(address.ProviderSmarty))

	_, err := svc.ValidateAddress(context.Background(), "123 Main St", "uspsdirect")

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestValidateAddress_EmptyAddress(t *testing.T) {
	svc := newService(t, address.NewMockValidator(address.ProviderGoogle), address.NewMockValidator(address.ProviderSmarty))

	_, err := svc.ValidateAddress(context.Background(), "   ", "")

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.EINVALID))
}

func TestValidateAddress_PrimaryValidSkipsSecondary(t *testing.T) {
	// Fallback monotonicity: VALID or CORRECTED from the primary means the
	// secondary is never invoked.
	for _, status := range []address.Status{address.StatusValid, address.StatusCorrected} {
		primary := address.NewMockValidator(address.ProviderGoogle)
		primary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
			return outcomeWithStatus(address.ProviderGoogle, status), nil
		}
		secondary := address.NewMockValidator(address.ProviderSmarty)

		svc := newService(t, primary, secondary)

		outcome, err := svc.ValidateAddress(context.Background(), "123 Main St", "")

		require.NoError(t, err)
		assert.Equal(t, status, outcome.Status)
		assert.Equal(t, address.ProviderGoogle, outcome.Provider)
		assert.Equal(t, 1, primary.Calls)
		assert.Equal(t, 0, secondary.Calls, "secondary must not run when primary is %s", status)
	}
}

func TestValidateAddress_PrimaryErrorFallsBack(t *testing.T) {
	primary := address.NewMockValidator(address.ProviderGoogle)
	primary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
		return nil, address.NewTransportError(address.ProviderGoogle, errors.New("timeout"))
	}
	secondary := address.NewMockValidator(address.ProviderSmarty)
	secondary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
		return outcomeWithStatus(address.ProviderSmarty, address.StatusValid), nil
	}

	svc := newService(t, primary, secondary)

	outcome, err := svc.ValidateAddress(context.Background(), "123 Main St", "")

	require.NoError(t, err)
	assert.Equal(t, address.ProviderSmarty, outcome.Provider)
	assert.Equal(t, 1, secondary.Calls)
}

func TestValidateAddress_BothProvidersFail(t *testing.T) {
	primary := address.NewMockValidator(address.ProviderGoogle)
	primary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
		return nil, address.NewTransportError(address.ProviderGoogle, errors.New("primary down"))
	}
	secondary := address.NewMockValidator(address.ProviderSmarty)
	secondary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
		return nil, address.NewAPIError(address.ProviderSmarty, 503, "secondary down")
	}

	svc := newService(t, primary, secondary)

	_, err := svc.ValidateAddress(context.Background(), "123 Main St", "")

	require.Error(t, err)
	var all *address.AllProvidersFailedError
	require.ErrorAs(t, err, &all)
	assert.Contains(t, err.Error(), "primary down")
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestValidateAddress_UnverifiableConsultsSecondary(t *testing.T) {
	// The secondary's answer supersedes an unverifiable primary regardless
	// of the secondary's own status.
	for _, status := range []address.Status{address.StatusValid, address.StatusCorrected, address.StatusUnverifiable} {
		primary := address.NewMockValidator(address.ProviderGoogle)
		primary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
			return outcomeWithStatus(address.ProviderGoogle, address.StatusUnverifiable), nil
		}
		secondary := address.NewMockValidator(address.ProviderSmarty)
		secondary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
			return outcomeWithStatus(address.ProviderSmarty, status), nil
		}

		svc := newService(t, primary, secondary)

		outcome, err := svc.ValidateAddress(context.Background(), "123 Main St", "")

		require.NoError(t, err)
		assert.Equal(t, address.ProviderSmarty, outcome.Provider)
		assert.Equal(t, status, outcome.Status)
		assert.Equal(t, 1, secondary.Calls)
	}
}

func TestValidateAddress_SecondaryFailureKeepsUnverifiablePrimary(t *testing.T) {
	// Graceful degradation: if the second opinion cannot be obtained, the
	// primary's unverifiable outcome is returned, not the secondary's error.
	primaryOutcome := outcomeWithStatus(address.ProviderGoogle, address.StatusUnverifiable)
	primaryOutcome.Warnings = append(primaryOutcome.Warnings, "Address is incomplete")

	primary := address.NewMockValidator(address.ProviderGoogle)
	primary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
		return primaryOutcome, nil
	}
	secondary := address.NewMockValidator(address.ProviderSmarty)
	secondary.ValidateFunc = func(ctx context.Context, text string) (*address.Outcome, error) {
		return nil, address.NewTransportError(address.ProviderSmarty, errors.New("unreachable"))
	}

	svc := newService(t, primary, secondary)

	outcome, err := svc.ValidateAddress(context.Background(), "123 Main St", "")

	require.NoError(t, err)
	assert.Equal(t, primaryOutcome, outcome)
	assert.Equal(t, address.ProviderGoogle, outcome.Provider)
}

func TestNewAddressValidationService_RequiresAdapters(t *testing.T) {
	_, err := service.NewAddressValidationService(nil, address.NewMockValidator(address.ProviderSmarty), nil)
	assert.Error(t, err)

	_, err = service.NewAddressValidationService(address.NewMockValidator(address.ProviderGoogle), nil, nil)
	assert.Error(t, err)
}
