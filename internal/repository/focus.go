package repository

import (
	"context"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

type FocusRepository interface {
	Create(ctx context.Context, s *domain.FocusSession) error
	// ListByUser returns the user's sessions, most recently started first.
	ListByUser(ctx context.Context, userID string) ([]domain.FocusSession, error)
	FindByID(ctx context.Context, userID, id string) (*domain.FocusSession, error)
	Update(ctx context.Context, s *domain.FocusSession) error
	Delete(ctx context.Context, userID, id string) error
}
