package routes

import (
	"github.com/matheusrod92/address-validator/internal/router"
)

// RegisterAPIRoutes registers the validation API routes
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	r.Post("/api/validate", deps.ValidationHandler.ValidateAddress)
}
