package address

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// googleBaseURL is the Address Validation endpoint. The API key travels as a
// query parameter per Google's convention.
const googleBaseURL = "https://addressvalidation.googleapis.com/v1:validateAddress"

// Confirmation levels reported per address component.
const (
	confirmationConfirmed  = "CONFIRMED"
	confirmationPlausible  = "UNCONFIRMED_BUT_PLAUSIBLE"
	confirmationSuspicious = "UNCONFIRMED_AND_SUSPICIOUS"
)

// Validation granularities that are too coarse to trust.
const (
	granularityUnspecified = "GRANULARITY_UNSPECIFIED"
	granularityOther       = "OTHER"
)

// Canonical notes produced by the Google classifier.
const (
	googleWarnNonUS       = "Address is not a US address"
	googleWarnIncomplete  = "Address is incomplete"
	googleWarnSuspicious  = "Address contains suspicious components"
	googleWarnPlausible   = "Address contains unconfirmed but plausible components"
	googleWarnGranularity = "Address could not be validated with sufficient granularity"
	googleNoteReplaced    = "Address components were corrected or replaced"
)

// GoogleConfig contains configuration for the Google adapter.
type GoogleConfig struct {
	APIKey string

	// BaseURL overrides the live endpoint. Used by tests.
	BaseURL string

	// Client defaults to http.DefaultClient.
	Client *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// GoogleValidator implements Validator against the Google Address Validation
// API.
type GoogleValidator struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewGoogleValidator creates a Google address validator.
func NewGoogleValidator(cfg GoogleConfig) *GoogleValidator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = googleBaseURL
	}

	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GoogleValidator{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

// Name identifies the provider.
func (v *GoogleValidator) Name() Provider {
	return ProviderGoogle
}

// googleRequest is the outbound payload. The region code is left for the
// provider to detect so the classifier can flag non-US input.
type googleRequest struct {
	Address googleRequestAddress `json:"address"`
}

type googleRequestAddress struct {
	AddressLines []string `json:"addressLines"`
}

// Response shapes. Every field is optional: the mapper must tolerate any
// subset being absent without failing.
type googleResponse struct {
	Result googleResult `json:"result"`
}

type googleResult struct {
	Verdict googleVerdict `json:"verdict"`
	Address googleAddress `json:"address"`
}

type googleVerdict struct {
	ValidationGranularity    string `json:"validationGranularity"`
	AddressComplete          bool   `json:"addressComplete"`
	HasUnconfirmedComponents bool   `json:"hasUnconfirmedComponents"`
	HasInferredComponents    bool   `json:"hasInferredComponents"`
	HasReplacedComponents    bool   `json:"hasReplacedComponents"`
}

type googleAddress struct {
	PostalAddress     googlePostalAddress      `json:"postalAddress"`
	AddressComponents []googleAddressComponent `json:"addressComponents"`
}

type googlePostalAddress struct {
	RegionCode         string `json:"regionCode"`
	PostalCode         string `json:"postalCode"`
	AdministrativeArea string `json:"administrativeArea"`
	Locality           string `json:"locality"`
}

type googleAddressComponent struct {
	ComponentName     googleComponentName `json:"componentName"`
	ComponentType     string              `json:"componentType"`
	ConfirmationLevel string              `json:"confirmationLevel"`
}

type googleComponentName struct {
	Text string `json:"text"`
}

// Validate verifies a free-text address against the Google Address Validation
// API and classifies the verdict into a canonical outcome.
func (v *GoogleValidator) Validate(ctx context.Context, addressText string) (*Outcome, error) {
	if !credentialConfigured(v.apiKey) {
		return nil, NewNotConfiguredError(ProviderGoogle)
	}

	payload, err := json.Marshal(googleRequest{
		Address: googleRequestAddress{AddressLines: []string{addressText}},
	})
	if err != nil {
		return nil, NewTransportError(ProviderGoogle, err)
	}

	url := fmt.Sprintf("%s?key=%s", v.baseURL, v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, NewTransportError(ProviderGoogle, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("google request failed", "error", err)
		return nil, NewTransportError(ProviderGoogle, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(ProviderGoogle, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		v.logger.Error("google returned error status", "status", resp.StatusCode)
		return nil, NewAPIError(ProviderGoogle, resp.StatusCode, string(body))
	}

	var parsed googleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, NewTransportError(ProviderGoogle, err)
	}

	outcome := classifyGoogle(parsed.Result)

	v.logger.Debug("google validation complete",
		"status", outcome.Status,
		"corrections", len(outcome.Corrections),
		"warnings", len(outcome.Warnings),
	)

	return outcome, nil
}

// classifyGoogle maps a verdict into the canonical status. The rules run in a
// fixed order and are all evaluated (no short-circuit) so every applicable
// note accumulates; the status only ever escalates in severity.
func classifyGoogle(res googleResult) *Outcome {
	out := newOutcome(ProviderGoogle)
	out.Standardized = googleStandardized(res.Address)

	// Rule 1: the service only covers US addresses.
	region := res.Address.PostalAddress.RegionCode
	if region != "" && region != "US" {
		out.Status = out.Status.Escalate(StatusUnverifiable)
		out.Warnings = append(out.Warnings, googleWarnNonUS)
	}

	// Rule 2: missing components make the verdict meaningless.
	if !res.Verdict.AddressComplete {
		out.Status = out.Status.Escalate(StatusUnverifiable)
		out.Warnings = append(out.Warnings, googleWarnIncomplete)
	}

	// Rule 3: replaced components mean the input was wrong but fixable.
	if res.Verdict.HasReplacedComponents {
		out.Status = out.Status.Escalate(StatusCorrected)
		out.Corrections = append(out.Corrections, googleNoteReplaced)
	}

	// Rule 4: unconfirmed components are either suspicious (unverifiable) or
	// merely plausible (corrected, but only when nothing worse has fired).
	if res.Verdict.HasUnconfirmedComponents {
		if hasSuspiciousComponent(res.Address.AddressComponents) {
			out.Status = out.Status.Escalate(StatusUnverifiable)
			out.Warnings = append(out.Warnings, googleWarnSuspicious)
		} else if out.Status == StatusValid {
			out.Status = StatusCorrected
			out.Warnings = append(out.Warnings, googleWarnPlausible)
		}
	}

	// Rule 5: a match that is not at least street-level tells us nothing.
	switch res.Verdict.ValidationGranularity {
	case "", granularityUnspecified, granularityOther:
		out.Status = out.Status.Escalate(StatusUnverifiable)
		out.Warnings = append(out.Warnings, googleWarnGranularity)
	}

	return out
}

func hasSuspiciousComponent(components []googleAddressComponent) bool {
	for _, c := range components {
		if c.ConfirmationLevel == confirmationSuspicious {
			return true
		}
	}
	return false
}

// googleStandardized extracts normalized components. Street number and route
// come from the first matching component by type; city, state and zip come
// from the postal-address sub-record. Missing values stay absent.
func googleStandardized(addr googleAddress) StandardizedAddress {
	std := StandardizedAddress{
		City:  addr.PostalAddress.Locality,
		State: addr.PostalAddress.AdministrativeArea,
		Zip:   addr.PostalAddress.PostalCode,
	}

	for _, c := range addr.AddressComponents {
		switch c.ComponentType {
		case "street_number":
			if std.Number == "" {
				std.Number = c.ComponentName.Text
			}
		case "route":
			if std.Street == "" {
				std.Street = c.ComponentName.Text
			}
		}
	}

	return std
}
