package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/authtoken"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultJWTTTL = 24 * time.Hour
	qrImageSize   = 200
)

type AuthUsecase struct {
	users       repository.UserRepository
	revocations repository.RevocationRepository
	jwtKey      []byte
	jwtTTL      time.Duration
	issuer      string
	adminEmail  string
	hashCost    int
	now         func() time.Time
}

func NewAuthUsecase(users repository.UserRepository, revocations repository.RevocationRepository, jwtKey []byte, jwtTTL time.Duration, issuer, adminEmail string) *AuthUsecase {
	if jwtTTL <= 0 {
		jwtTTL = defaultJWTTTL
	}
	return &AuthUsecase{
		users:       users,
		revocations: revocations,
		jwtKey:      jwtKey,
		jwtTTL:      jwtTTL,
		issuer:      issuer,
		adminEmail:  strings.ToLower(strings.TrimSpace(adminEmail)),
		hashCost:    bcrypt.DefaultCost,
		now:         time.Now,
	}
}

// WithHashCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func (u *AuthUsecase) WithHashCost(cost int) *AuthUsecase {
	u.hashCost = cost
	return u
}

// Register creates the account. With two-factor enabled no token is issued;
// the response carries the authenticator QR code instead and the first
// token comes from Verify.
func (u *AuthUsecase) Register(ctx context.Context, in domain.Registration) (*domain.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	acct := &domain.Account{
		User: domain.User{
			ID:         uuid.NewString(),
			Email:      email,
			FirstName:  in.FirstName,
			LastName:   in.LastName,
			Role:       domain.RoleUser,
			MFAEnabled: in.MFAEnabled,
			CreatedAt:  u.now().UTC(),
		},
		PasswordHash: string(hash),
	}
	if u.adminEmail != "" && email == u.adminEmail {
		acct.Role = domain.RoleAdmin
	}

	var imageURI string
	if in.MFAEnabled {
		key, err := totp.Generate(totp.GenerateOpts{Issuer: u.issuer, AccountName: email})
		if err != nil {
			return nil, fmt.Errorf("generate totp secret: %w", err)
		}
		acct.MFASecret = key.Secret()
		if imageURI, err = qrDataURI(key); err != nil {
			return nil, err
		}
	}

	if err := u.users.Create(ctx, acct); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if in.MFAEnabled {
		return &domain.AuthResponse{MFAEnabled: true, SecretImageURI: imageURI}, nil
	}
	token, err := u.issue(&acct.User)
	if err != nil {
		return nil, err
	}
	user := acct.User
	return &domain.AuthResponse{AccessToken: token, User: &user}, nil
}

// Authenticate checks the password. Accounts with two-factor enabled get
// domain.ErrMFARequired and must continue with Verify.
func (u *AuthUsecase) Authenticate(ctx context.Context, in domain.Credentials) (*domain.AuthResponse, error) {
	acct, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrBadCredentials
	}
	if acct.MFAEnabled {
		return nil, domain.ErrMFARequired
	}

	token, err := u.issue(&acct.User)
	if err != nil {
		return nil, err
	}
	user := acct.User
	return &domain.AuthResponse{AccessToken: token, User: &user, MFAEnabled: false}, nil
}

// Verify checks a TOTP code and issues a token. The response carries no
// user; clients read the identity from the token.
func (u *AuthUsecase) Verify(ctx context.Context, in domain.Verification) (*domain.AuthResponse, error) {
	acct, err := u.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCode
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !acct.MFAEnabled || acct.MFASecret == "" {
		return nil, domain.ErrMFANotEnabled
	}
	if !totp.Validate(in.Code, acct.MFASecret) {
		return nil, domain.ErrInvalidCode
	}

	token, err := u.issue(&acct.User)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{AccessToken: token, MFAEnabled: true}, nil
}

// Logout revokes the token until it would have expired anyway.
func (u *AuthUsecase) Logout(ctx context.Context, claims *authtoken.Claims) error {
	until := u.now().Add(u.jwtTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := u.revocations.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Authorize verifies raw and returns its claims with the role refreshed from
// the user record. Revoked tokens and deleted users are rejected with
// domain.ErrTokenInvalid.
func (u *AuthUsecase) Authorize(ctx context.Context, raw string) (*authtoken.Claims, error) {
	claims, err := authtoken.Verify(u.jwtKey, raw)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	revoked, err := u.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, domain.ErrTokenInvalid
	}
	acct, err := u.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	claims.Role = acct.Role
	return claims, nil
}

func (u *AuthUsecase) issue(user *domain.User) (string, error) {
	return authtoken.Sign(u.jwtKey, user, uuid.NewString(), u.now(), u.jwtTTL)
}

func qrDataURI(key *otp.Key) (string, error) {
	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("render totp qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode totp qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
