package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

type UserRepository interface {
	// Create fails with domain.ErrEmailTaken when the email is registered.
	Create(ctx context.Context, acct *domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, in domain.UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// RevocationRepository is the deny-list of logged-out token IDs.
type RevocationRepository interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
