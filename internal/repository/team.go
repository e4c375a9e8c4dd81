package repository

import (
	"context"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

type TeamRepository interface {
	// Create fails with domain.ErrTeamNameConflict when the owner already
	// has a team of that name.
	Create(ctx context.Context, t *domain.Team) error
	FindByID(ctx context.Context, id string) (*domain.Team, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	AddMember(ctx context.Context, teamID, userID string) error
	Delete(ctx context.Context, id string) error
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	FindByID(ctx context.Context, id string) (*domain.Invitation, error)
	// Resolve moves a pending invitation to status. It fails with
	// domain.ErrInvitationResolved when it was already answered.
	Resolve(ctx context.Context, id string, status domain.InvitationStatus) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListByUser returns the newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error)
	MarkReadByInvitation(ctx context.Context, invitationID string) error
}
