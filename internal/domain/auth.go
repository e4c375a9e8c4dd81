package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email is already registered")
	ErrBadCredentials = errors.New("bad credentials")
	ErrMFARequired    = errors.New("MFA_REQUIRED")
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrMFANotEnabled  = errors.New("two-factor authentication is not enabled")
	ErrTokenInvalid   = errors.New("token is invalid or expired")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)

// MFARequiredSignal is the rejection message the backend sends when a
// password login must be completed with a verification code.
const MFARequiredSignal = "MFA_REQUIRED"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Role       Role      `json:"role"`
	MFAEnabled bool      `json:"mfaEnabled"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Key implements resource.Identified.
func (u User) Key() string { return u.ID }

// Account is the backend's stored view of a user, including secrets that
// never leave the server.
type Account struct {
	User
	PasswordHash string
	MFASecret    string
}

type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	FirstName  string `json:"firstName"  validate:"required,max=100"`
	LastName   string `json:"lastName"   validate:"required,max=100"`
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required,min=8"`
	MFAEnabled bool   `json:"mfaEnabled"`
}

type Verification struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required,len=6,numeric"`
}

// AuthResponse is the payload of authenticate, register and verify.
// Fields are omitted when the step does not issue them.
type AuthResponse struct {
	AccessToken    string `json:"access_token,omitempty"`
	User           *User  `json:"user,omitempty"`
	MFAEnabled     bool   `json:"mfaEnabled"`
	SecretImageURI string `json:"secretImageUri,omitempty"`
}
