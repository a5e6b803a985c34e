package weightlog

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/weight-pals/weight_pals/internal/auth"
	"github.com/weight-pals/weight_pals/internal/identity"
	"github.com/weight-pals/weight_pals/internal/validation"
)

// Handler exposes weight log HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a weight log HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type logRequest struct {
	Weight float64   `json:"weight" validate:"gt=0"`
	Date   time.Time `json:"date"`
}

// Log records a measurement for the authenticated user.
func (h *Handler) Log(c *fiber.Ctx) error {
	var req logRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	uid, _ := c.Locals(auth.LocalUserID).(string)
	entry, err := h.service.Log(c.UserContext(), LogInput{UserID: uid, Weight: req.Weight, Date: req.Date})
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusCreated).JSON(entry)
}

// List returns the authenticated user's weight log.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals(auth.LocalUserID).(string)
	entries, err := h.service.List(c.UserContext(), uid)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"weight_log": entries})
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, ErrDuplicateDay):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidWeight):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrUserNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "weight log unavailable")
	}
}
