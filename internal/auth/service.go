package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/weight-pals/weight_pals/internal/identity"
	"github.com/weight-pals/weight_pals/internal/revocation"
)

// Registry is the part of the revocation registry the service needs.
type Registry interface {
	Add(ctx context.Context, token string) (bool, error)
	Contains(ctx context.Context, token string) (bool, error)
}

// Deps aggregates the collaborators of the auth service.
type Deps struct {
	Users    identity.Repository
	Hasher   Hasher
	Tokens   *Issuer
	Registry Registry
	TokenTTL time.Duration
	Logger   *slog.Logger
}

// Service implements register/login/validate/logout/change-password. It keeps
// no mutable state of its own; all state lives in the user store and the
// revocation registry.
type Service struct {
	users    identity.Repository
	hasher   Hasher
	tokens   *Issuer
	registry Registry
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewService builds the auth service. Zero TokenTTL means DefaultTokenTTL.
func NewService(d Deps) *Service {
	ttl := d.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	hasher := d.Hasher
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: d.Users, hasher: hasher, tokens: d.Tokens, registry: d.Registry, tokenTTL: ttl, logger: logger}
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Username string
	Email    string
	FullName identity.FullName
	Password string
}

// Message is a plain confirmation returned by mutating operations.
type Message struct {
	Message string `json:"message"`
}

// LoginResult is the public user plus the freshly issued access token.
type LoginResult struct {
	identity.PublicUser
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"-"`
}

// Register hashes the password and stores a new user. Any failure, including
// a taken username, is reported as a KindRegistration error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Message, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.FullName.FirstName) == "" || in.Password == "" {
		return Message{}, registrationError(ErrInvalidInput)
	}

	if len(in.Password) > MaxPasswordBytes {
		return Message{}, registrationError(ErrPasswordTooLong)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Warn("auth.register hash failed", slog.String("username", in.Username), slog.Any("error", err))
		return Message{}, registrationError(err)
	}

	user := identity.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Warn("auth.register store failed", slog.String("username", in.Username), slog.Any("error", err))
		return Message{}, registrationError(err)
	}

	s.logger.Info("auth.register completed", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return Message{Message: "User " + user.Username + " registered successfully"}, nil
}

// Login checks the credentials and issues a token valid for the configured TTL.
// Unknown user and wrong password both surface as the same KindAuth error.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Info("auth.login rejected", slog.String("username", username), slog.Any("error", err))
		return LoginResult{}, authError("login", msgLogin, err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info("auth.login rejected", slog.String("username", username), slog.Any("error", ErrInvalidCredentials))
		return LoginResult{}, authError("login", msgLogin, ErrInvalidCredentials)
	}

	token, exp, err := s.tokens.Sign(user.ID, s.tokenTTL)
	if err != nil {
		s.logger.Error("auth.login sign failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return LoginResult{}, authError("login", msgLogin, err)
	}
	return LoginResult{PublicUser: user.Public(), AccessToken: token, ExpiresAt: exp}, nil
}

// ValidateToken re-reads the user named by an already verified token. It
// fails when the user no longer exists.
func (s *Service) ValidateToken(ctx context.Context, userID string) (identity.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return identity.PublicUser{}, authError("validate", msgValidate, err)
	}
	return user.Public(), nil
}

// Logout revokes token. Revoking a token twice is an error, as is an
// unreachable registry.
func (s *Service) Logout(ctx context.Context, token string) (Message, error) {
	if strings.TrimSpace(token) == "" {
		return Message{}, logoutError(ErrInvalidInput)
	}
	added, err := s.registry.Add(ctx, token)
	if err != nil {
		s.logger.Error("auth.logout registry failed", slog.Any("error", err))
		return Message{}, logoutError(err)
	}
	if !added {
		return Message{}, logoutError(revocation.ErrAlreadyRevoked)
	}
	return Message{Message: "User successfully logged out"}, nil
}

// ChangePassword replaces the stored digest after checking oldPassword.
// Tokens issued before the change stay valid.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (Message, error) {
	if newPassword == "" {
		return Message{}, authError("change_password", msgChangePassword, ErrInvalidInput)
	}
	if len(newPassword) > MaxPasswordBytes {
		return Message{}, authError("change_password", msgChangePassword, ErrPasswordTooLong)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Message{}, authError("change_password", msgChangePassword, err)
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return Message{}, authError("change_password", msgChangePassword, ErrInvalidCredentials)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return Message{}, authError("change_password", msgChangePassword, err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Error("auth.change_password store failed", slog.String("user_id", user.ID), slog.Any("error", err))
		return Message{}, authError("change_password", msgChangePassword, err)
	}
	return Message{Message: "Successfully changed password"}, nil
}

// Authenticate verifies a bearer token and checks it against the registry.
// Used by the HTTP middleware in front of protected routes.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.registry.Contains(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}
