package routes

import (
	"github.com/matheusrod92/address-validator/internal/handler/api"
)

// APIDeps contains dependencies for API routes
type APIDeps struct {
	ValidationHandler *api.ValidationHandler
}
