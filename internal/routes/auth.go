package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weight-pals/weight_pals/internal/auth"
)

// RegisterAuthRoutes wires authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, bearer, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", h.Register)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Get("/validate", bearer, h.Validate)
	group.Post("/logout", bearer, h.Logout)
	group.Put("/password", bearer, h.ChangePassword)
}
