package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matheusrod92/address-validator/internal/address"
	"github.com/matheusrod92/address-validator/internal/domain"
	"github.com/matheusrod92/address-validator/internal/telemetry"
)

// AddressValidationService orchestrates the provider adapters: it decides
// which adapter(s) to invoke, in what order, and which outcome to return.
type AddressValidationService interface {
	// ValidateAddress validates a free-text US address. When provider is
	// empty the primary provider runs first with automatic fallback to the
	// secondary; when a provider is named, only that adapter runs and its
	// error, if any, propagates.
	ValidateAddress(ctx context.Context, addressText string, provider address.Provider) (*address.Outcome, error)
}

type addressValidationService struct {
	primary   address.Validator
	secondary address.Validator
	logger    *slog.Logger
}

// NewAddressValidationService creates the orchestrator over a primary and a
// secondary provider adapter.
func NewAddressValidationService(primary, secondary address.Validator, logger *slog.Logger) (AddressValidationService, error) {
	if primary == nil || secondary == nil {
		return nil, fmt.Errorf("both provider adapters are required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &addressValidationService{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}, nil
}

func (s *addressValidationService) ValidateAddress(ctx context.Context, addressText string, provider address.Provider) (*address.Outcome, error) {
	if strings.TrimSpace(addressText) == "" {
		return nil, domain.Invalid("validation.validate", "address is required")
	}

	if provider != "" {
		v, err := s.byName(provider)
		if err != nil {
			return nil, err
		}
		return s.observe(ctx, v, addressText)
	}

	return s.validateWithFallback(ctx, addressText)
}

// observe wraps a single adapter call with latency and outcome metrics.
func (s *addressValidationService) observe(ctx context.Context, v address.Validator, addressText string) (*address.Outcome, error) {
	start := time.Now()
	outcome, err := v.Validate(ctx, addressText)

	if telemetry.Validation != nil {
		telemetry.Validation.ProviderLatency.WithLabelValues(string(v.Name())).Observe(time.Since(start).Seconds())
		if err != nil {
			var pe *address.ProviderError
			kind := "transport"
			if errors.As(err, &pe) {
				kind = string(pe.Kind)
			}
			telemetry.Validation.ProviderErrors.WithLabelValues(string(v.Name()), kind).Inc()
		} else {
			telemetry.Validation.ValidationsTotal.WithLabelValues(string(v.Name()), string(outcome.Status)).Inc()
		}
	}

	return outcome, err
}

func (s *addressValidationService) byName(provider address.Provider) (address.Validator, error) {
	switch provider {
	case s.primary.Name():
		return s.primary, nil
	case s.secondary.Name():
		return s.secondary, nil
	default:
		return nil, domain.Errorf(domain.EINVALID, "validation.validate", "unknown provider: %s", provider)
	}
}

// fallbackDecision is what to do about the secondary provider once the
// primary's result is known.
type fallbackDecision int

const (
	// keepPrimary: the primary answered VALID or CORRECTED; the secondary is
	// never invoked.
	keepPrimary fallbackDecision = iota

	// consultSecondary: the primary answered UNVERIFIABLE; ask the secondary
	// for a second opinion. Its answer supersedes the primary's regardless
	// of its own status, but if it fails the primary's verdict stands.
	consultSecondary

	// replaceWithSecondary: the primary failed outright; the secondary is
	// the only hope, and a second failure exhausts the fallback path.
	replaceWithSecondary
)

// decideFallback is the whole fallback policy in one place.
func decideFallback(outcome *address.Outcome, err error) fallbackDecision {
	switch {
	case err != nil:
		return replaceWithSecondary
	case outcome.Status == address.StatusUnverifiable:
		return consultSecondary
	default:
		return keepPrimary
	}
}

func (s *addressValidationService) validateWithFallback(ctx context.Context, addressText string) (*address.Outcome, error) {
	primaryOutcome, primaryErr := s.observe(ctx, s.primary, addressText)

	switch decideFallback(primaryOutcome, primaryErr) {
	case keepPrimary:
		return primaryOutcome, nil

	case consultSecondary:
		if telemetry.Validation != nil {
			telemetry.Validation.FallbacksTotal.WithLabelValues("unverifiable").Inc()
		}
		secondaryOutcome, secondaryErr := s.observe(ctx, s.secondary, addressText)
		if secondaryErr != nil {
			// Graceful degradation: an unverifiable answer beats no answer.
			s.logger.Warn("secondary provider failed, keeping primary verdict",
				"primary", s.primary.Name(),
				"secondary", s.secondary.Name(),
				"error", secondaryErr,
			)
			return primaryOutcome, nil
		}
		s.logger.Info("secondary opinion supersedes unverifiable primary",
			"primary", s.primary.Name(),
			"secondary", s.secondary.Name(),
			"status", secondaryOutcome.Status,
		)
		return secondaryOutcome, nil

	default: // replaceWithSecondary
		s.logger.Warn("primary provider failed, falling back",
			"primary", s.primary.Name(),
			"error", primaryErr,
		)
		if telemetry.Validation != nil {
			telemetry.Validation.FallbacksTotal.WithLabelValues("provider_error").Inc()
		}
		secondaryOutcome, secondaryErr := s.observe(ctx, s.secondary, addressText)
		if secondaryErr != nil {
			return nil, &address.AllProvidersFailedError{
				Errs: []error{primaryErr, secondaryErr},
			}
		}
		return secondaryOutcome, nil
	}
}
