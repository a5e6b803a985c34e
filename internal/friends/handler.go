package friends

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/weight-pals/weight_pals/internal/auth"
	"github.com/weight-pals/weight_pals/internal/identity"
	"github.com/weight-pals/weight_pals/internal/validation"
)

// Handler exposes friend endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a friends handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addRequest struct {
	FriendID string `json:"friend_id" validate:"required"`
}

// Add befriends another user.
func (h *Handler) Add(c *fiber.Ctx) error {
	var req addRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	uid, _ := c.Locals(auth.LocalUserID).(string)
	friend, err := h.service.Add(c.UserContext(), uid, req.FriendID)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusCreated).JSON(friend)
}

// Remove drops a friend.
func (h *Handler) Remove(c *fiber.Ctx) error {
	uid, _ := c.Locals(auth.LocalUserID).(string)
	if err := h.service.Remove(c.UserContext(), uid, c.Params("friendId")); err != nil {
		return toFiberError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// List returns the caller's friends.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals(auth.LocalUserID).(string)
	list, err := h.service.List(c.UserContext(), uid)
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{"friends": list})
}

// Logs returns the weight logs of the caller's friends.
func (h *Handler) Logs(c *fiber.Ctx) error {
	uid, _ := c.Locals(auth.LocalUserID).(string)
	logs, err := h.service.Logs(c.UserContext(), uid)
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{"friends": logs})
}

// Name returns the full name of the user in the path.
func (h *Handler) Name(c *fiber.Ctx) error {
	name, err := h.service.Name(c.UserContext(), c.Params("userId"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(fiber.Map{"full_name": name})
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, ErrSelfFriend):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAlreadyFriends):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFriends), errors.Is(err, identity.ErrUserNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "friends unavailable")
	}
}
