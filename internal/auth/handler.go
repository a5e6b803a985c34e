package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/weight-pals/weight_pals/internal/identity"
	"github.com/weight-pals/weight_pals/internal/revocation"
	"github.com/weight-pals/weight_pals/internal/validation"
)

// Fiber locals set by the bearer middleware.
const (
	LocalUserID = "user_id"
	LocalToken  = "token"
)

// Handler exposes auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Username string            `json:"username" validate:"required"`
	Email    string            `json:"email" validate:"required"`
	FullName identity.FullName `json:"full_name"`
	Password string            `json:"password" validate:"required"`
}

// Register creates an account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	msg, err := h.svc.Register(c.UserContext(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusCreated).JSON(msg)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login returns the public user and an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	res, err := h.svc.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).JSON(res)
}

// Validate returns the public view of the token's user.
func (h *Handler) Validate(c *fiber.Ctx) error {
	uid, _ := c.Locals(LocalUserID).(string)
	user, err := h.svc.ValidateToken(c.UserContext(), uid)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).JSON(user)
}

// Logout revokes the bearer token used for this request.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals(LocalToken).(string)
	msg, err := h.svc.Logout(c.UserContext(), token)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).JSON(msg)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangePassword replaces the caller's password.
func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}
	uid, _ := c.Locals(LocalUserID).(string)
	msg, err := h.svc.ChangePassword(c.UserContext(), uid, req.OldPassword, req.NewPassword)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusOK).JSON(msg)
}

// toFiberError maps a service error to a transport status. The body only
// ever carries the coarse message.
func toFiberError(err error) error {
	var e *Error
	if !errors.As(err, &e) {
		return fiber.NewError(http.StatusInternalServerError, "internal error")
	}
	return fiber.NewError(statusFor(e), e.Message)
}

func statusFor(e *Error) int {
	switch {
	case errors.Is(e.Err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(e.Err, revocation.ErrUnavailable):
		return http.StatusServiceUnavailable
	}

	switch e.Kind {
	case KindRegistration:
		if errors.Is(e.Err, identity.ErrUsernameTaken) {
			return http.StatusConflict
		}
		return http.StatusInternalServerError
	case KindAuth:
		switch {
		case errors.Is(e.Err, ErrInvalidCredentials):
			return http.StatusUnauthorized
		case errors.Is(e.Err, identity.ErrUserNotFound):
			if e.Op == "login" {
				return http.StatusUnauthorized
			}
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	case KindLogout:
		if errors.Is(e.Err, revocation.ErrAlreadyRevoked) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
