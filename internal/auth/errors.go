package auth

import (
	"errors"
)

// Kind is the coarse failure category of a service operation.
type Kind string

const (
	// KindRegistration is returned by Register.
	KindRegistration Kind = "registration"
	// KindAuth is returned by Login, ValidateToken and ChangePassword.
	KindAuth Kind = "auth"
	// KindLogout is returned by Logout.
	KindLogout Kind = "logout"
)

var (
	// ErrInvalidCredentials means the password did not match the stored digest.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput means a required field was missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTokenRevoked is returned by Authenticate for a logged-out token.
	ErrTokenRevoked = errors.New("token revoked")
)

// Error is what every Service operation fails with. Message is the only text
// meant for clients; the tagged cause stays reachable through errors.Is for
// logging and status mapping.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a service error, or "" for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

const (
	msgRegister       = "error registering user"
	msgLogin          = "login failed"
	msgValidate       = "error validating user"
	msgLogout         = "error logging out user"
	msgChangePassword = "error changing password"
)

func registrationError(err error) *Error {
	return &Error{Kind: KindRegistration, Op: "register", Message: msgRegister, Err: err}
}

func authError(op, msg string, err error) *Error {
	return &Error{Kind: KindAuth, Op: op, Message: msg, Err: err}
}

func logoutError(err error) *Error {
	return &Error{Kind: KindLogout, Op: "logout", Message: msgLogout, Err: err}
}
