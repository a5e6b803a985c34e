package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weight-pals/weight_pals/internal/friends"
	"github.com/weight-pals/weight_pals/internal/weightlog"
)

// RegisterWeightRoutes wires the caller's weight log.
func RegisterWeightRoutes(r fiber.Router, h *weightlog.Handler, idempotency fiber.Handler) {
	r.Post("/me/weights", idempotency, h.Log)
	r.Get("/me/weights", h.List)
}

// RegisterFriendRoutes wires friend management and the name lookup.
func RegisterFriendRoutes(r fiber.Router, h *friends.Handler) {
	r.Get("/me/friends", h.List)
	r.Post("/me/friends", h.Add)
	r.Get("/me/friends/weights", h.Logs)
	r.Delete("/me/friends/:friendId", h.Remove)
	r.Get("/:userId/name", h.Name)
}
