package address

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// smartyBaseURL is the Smarty US Street API endpoint. Authentication travels
// as auth-id/auth-token query parameters.
const smartyBaseURL = "https://us-street.api.smarty.com/street-address"

// DPV (delivery point validation) match codes.
const (
	dpvConfirmed        = "Y"
	dpvNotConfirmed     = "N"
	dpvMissingSecondary = "S"
	dpvDefaultMatch     = "D"
)

// USPS record types the service treats as ordinary deliverable addresses.
const (
	recordTypeStreet   = "S"
	recordTypeHighrise = "H"
)

// Canonical notes produced by the Smarty classifier.
const (
	smartyWarnNoMatch          = "No matching address found"
	smartyWarnDPVNotConfirmed  = "Address could not be confirmed by USPS"
	smartyWarnMissingSecondary = "Address is missing secondary information (apt/suite)"
	smartyWarnVacant           = "Address is marked as vacant"
	smartyNoteEnhanced         = "Address was enhanced or corrected"
	smartyNoteStandardized     = "Address format was standardized"
)

// deliveryLinePrefixLen bounds the "format was standardized" heuristic: only
// the first characters of the normalized delivery line are searched for in
// the original input. See classifySmarty.
const deliveryLinePrefixLen = 20

// SmartyConfig contains configuration for the Smarty adapter.
type SmartyConfig struct {
	AuthID    string
	AuthToken string

	// BaseURL overrides the live endpoint. Used by tests.
	BaseURL string

	// Client defaults to http.DefaultClient.
	Client *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// SmartyValidator implements Validator against the Smarty US Street API.
type SmartyValidator struct {
	authID    string
	authToken string
	baseURL   string
	client    *http.Client
	logger    *slog.Logger
}

// NewSmartyValidator creates a Smarty address validator.
func NewSmartyValidator(cfg SmartyConfig) *SmartyValidator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = smartyBaseURL
	}

	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SmartyValidator{
		authID:    cfg.AuthID,
		authToken: cfg.AuthToken,
		baseURL:   baseURL,
		client:    client,
		logger:    logger,
	}
}

// Name identifies the provider.
func (v *SmartyValidator) Name() Provider {
	return ProviderSmarty
}

// Response shapes. The API returns a JSON array of candidates; every field is
// optional and the mapper must tolerate any subset being absent.
type smartyCandidate struct {
	DeliveryLine1 string           `json:"delivery_line_1"`
	LastLine      string           `json:"last_line"`
	Components    smartyComponents `json:"components"`
	Metadata      smartyMetadata   `json:"metadata"`
	Analysis      smartyAnalysis   `json:"analysis"`
}

type smartyComponents struct {
	PrimaryNumber       string `json:"primary_number"`
	StreetPredirection  string `json:"street_predirection"`
	StreetName          string `json:"street_name"`
	StreetSuffix        string `json:"street_suffix"`
	StreetPostdirection string `json:"street_postdirection"`
	SecondaryNumber     string `json:"secondary_number"`
	SecondaryDesignator string `json:"secondary_designator"`
	CityName            string `json:"city_name"`
	StateAbbreviation   string `json:"state_abbreviation"`
	Zipcode             string `json:"zipcode"`
	Plus4Code           string `json:"plus4_code"`
}

type smartyMetadata struct {
	RecordType string `json:"record_type"`
}

type smartyAnalysis struct {
	DPVMatchCode  string `json:"dpv_match_code"`
	DPVVacant     string `json:"dpv_vacant"`
	EnhancedMatch string `json:"enhanced_match"`
}

// Validate verifies a free-text address against the Smarty US Street API and
// classifies the best candidate into a canonical outcome.
func (v *SmartyValidator) Validate(ctx context.Context, addressText string) (*Outcome, error) {
	if !credentialConfigured(v.authID) || !credentialConfigured(v.authToken) {
		return nil, NewNotConfiguredError(ProviderSmarty)
	}

	query := url.Values{
		"auth-id":    {v.authID},
		"auth-token": {v.authToken},
		"street":     {addressText},
		"candidates": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, NewTransportError(ProviderSmarty, err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("smarty request failed", "error", err)
		return nil, NewTransportError(ProviderSmarty, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportError(ProviderSmarty, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		v.logger.Error("smarty returned error status", "status", resp.StatusCode)
		return nil, NewAPIError(ProviderSmarty, resp.StatusCode, string(body))
	}

	var candidates []smartyCandidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		return nil, NewTransportError(ProviderSmarty, err)
	}

	// An empty candidate set is an answer, not an error: nothing matched.
	if len(candidates) == 0 {
		out := newOutcome(ProviderSmarty)
		out.Status = StatusUnverifiable
		out.Warnings = append(out.Warnings, smartyWarnNoMatch)
		return out, nil
	}

	outcome := classifySmarty(candidates[0], addressText)

	v.logger.Debug("smarty validation complete",
		"status", outcome.Status,
		"corrections", len(outcome.Corrections),
		"warnings", len(outcome.Warnings),
	)

	return outcome, nil
}

// classifySmarty maps a candidate's DPV and footnote signals into the
// canonical status. Rules run in a fixed order; the status only ever
// escalates in severity, and informational rules never change it.
func classifySmarty(c smartyCandidate, input string) *Outcome {
	out := newOutcome(ProviderSmarty)
	out.Standardized = smartyStandardized(c.Components)

	// Rules 1-2: DPV verdict.
	switch c.Analysis.DPVMatchCode {
	case dpvNotConfirmed:
		out.Status = out.Status.Escalate(StatusUnverifiable)
		out.Warnings = append(out.Warnings, smartyWarnDPVNotConfirmed)
	case dpvMissingSecondary, dpvDefaultMatch:
		out.Status = out.Status.Escalate(StatusCorrected)
		out.Warnings = append(out.Warnings, smartyWarnMissingSecondary)
	}

	// Rule 3: the provider enhanced or corrected the address.
	if c.Analysis.EnhancedMatch != "" {
		out.Status = out.Status.Escalate(StatusCorrected)
		out.Corrections = append(out.Corrections, smartyNoteEnhanced)
	}

	// Rule 4: silent-normalization heuristic. If the normalized delivery
	// line's prefix does not appear anywhere in the original input, the
	// provider reformatted the address without flagging it. A prefix
	// substring check is a known approximation, not a guarantee; it is kept
	// for compatibility with existing callers.
	if out.Status == StatusValid && !deliveryLineMatchesInput(c.DeliveryLine1, input) {
		out.Status = StatusCorrected
		out.Corrections = append(out.Corrections, smartyNoteStandardized)
	}

	// Rule 5: vacancy is worth knowing but the address is still real.
	if c.Analysis.DPVVacant == "Y" {
		out.Warnings = append(out.Warnings, smartyWarnVacant)
	}

	// Rule 6: firm and PO-box-like records are flagged, not rejected.
	if rt := c.Metadata.RecordType; rt != recordTypeStreet && rt != recordTypeHighrise {
		out.Warnings = append(out.Warnings, fmt.Sprintf("Record type is %q", rt))
	}

	return out
}

// deliveryLineMatchesInput reports whether the normalized delivery line
// (truncated to deliveryLinePrefixLen characters) appears as a
// case-insensitive substring of the original input.
func deliveryLineMatchesInput(line, input string) bool {
	if line == "" {
		return true
	}
	prefix := line
	if len(prefix) > deliveryLinePrefixLen {
		prefix = prefix[:deliveryLinePrefixLen]
	}
	return strings.Contains(strings.ToLower(input), strings.ToLower(prefix))
}

// smartyStandardized extracts normalized components. The street is rebuilt
// from its parsed parts in USPS order; the zip carries the plus-4 code when
// present. Missing values stay absent.
func smartyStandardized(c smartyComponents) StandardizedAddress {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.StreetPredirection, c.StreetName, c.StreetSuffix, c.StreetPostdirection} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	zip := c.Zipcode
	if zip != "" && c.Plus4Code != "" {
		zip = zip + "-" + c.Plus4Code
	}

	return StandardizedAddress{
		Number: c.PrimaryNumber,
		Street: strings.Join(parts, " "),
		City:   c.CityName,
		State:  c.StateAbbreviation,
		Zip:    zip,
	}
}
