package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/matheusrod92/address-validator/internal/address"
	"github.com/matheusrod92/address-validator/internal/domain"
	"github.com/matheusrod92/address-validator/internal/middleware"
	"github.com/matheusrod92/address-validator/internal/service"
	"github.com/matheusrod92/address-validator/internal/telemetry"
)

// ValidationHandler handles the address validation endpoint.
type ValidationHandler struct {
	service  service.AddressValidationService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidationHandler creates a new validation handler.
func NewValidationHandler(svc service.AddressValidationService, logger *slog.Logger) *ValidationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidationHandler{
		service:  svc,
		validate: validator.New(),
		logger:   logger,
	}
}

// validateRequest is the request schema for POST /api/validate.
type validateRequest struct {
	Address  string `json:"address" validate:"required"`
	Provider string `json:"provider" validate:"omitempty,oneof=google smarty"`
}

// ValidateAddress handles POST /api/validate
//
// Response codes:
// - 200 OK: outcome serialized as JSON (the outcome itself may be UNVERIFIABLE)
// - 400 Bad Request: malformed body, missing address, or unknown provider
// - 503 Service Unavailable: the requested provider has no credentials configured
// - 500 Internal Server Error: provider failure(s) with no fallback left
func (h *ValidationHandler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context(), h.logger)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("failed to decode validate request", "error", err)
		respondError(w, logger, domain.Invalid("api.validate", "invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, logger, domain.Invalid("api.validate", schemaErrorMessage(err)))
		return
	}

	outcome, err := h.service.ValidateAddress(r.Context(), req.Address, address.Provider(req.Provider))
	if err != nil {
		logger.Error("address validation failed",
			"error", err,
			"provider", req.Provider,
		)
		if code, _ := errorBody(err); errorCodeToHTTPStatus(code) >= http.StatusInternalServerError {
			telemetry.CaptureErrorWithProvider(err, req.Provider, map[string]interface{}{
				"request_id": middleware.GetRequestID(r.Context()),
			})
		}
		respondError(w, logger, err)
		return
	}

	logger.Info("address validated",
		"provider", outcome.Provider,
		"status", outcome.Status,
		"corrections", len(outcome.Corrections),
		"warnings", len(outcome.Warnings),
	)

	respondJSON(w, logger, http.StatusOK, outcome)
}

// schemaErrorMessage turns the first field violation into a user-facing note.
func schemaErrorMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		switch fe.Field() {
		case "Address":
			return "address is required"
		case "Provider":
			return "provider must be one of: google, smarty"
		}
	}
	return "invalid request"
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	code, message := errorBody(err)
	respondJSON(w, logger, errorCodeToHTTPStatus(code), errorResponse{
		Error: errorDetail{Code: code, Message: message},
	})
}

// errorBody extracts the wire code and user-facing message for an error.
// Provider configuration errors are surfaced specifically; other provider
// failures stay opaque.
func errorBody(err error) (string, string) {
	if address.IsNotConfigured(err) {
		return domain.EUNAVAILABLE, "Address validation provider is not configured"
	}
	return domain.ErrorCode(err), domain.ErrorMessage(err)
}

func errorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
