package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/email"
	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/google/uuid"
)

const (
	msgInvitationAccepted = "Invitation accepted"
	msgInvitationDeclined = "Invitation declined"
)

// TeamUsecase manages teams, invitations and the notifications they raise.
type TeamUsecase struct {
	teams         repository.TeamRepository
	invitations   repository.InvitationRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	email         email.Sender
	appBaseURL    string
	logger        *slog.Logger
	now           func() time.Time
}

func NewTeamUsecase(
	teams repository.TeamRepository,
	invitations repository.InvitationRepository,
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	emailSender email.Sender,
	appBaseURL string,
	logger *slog.Logger,
) *TeamUsecase {
	return &TeamUsecase{
		teams:         teams,
		invitations:   invitations,
		notifications: notifications,
		users:         users,
		email:         emailSender,
		appBaseURL:    strings.TrimRight(appBaseURL, "/"),
		logger:        logger.With("component", "team_usecase"),
		now:           time.Now,
	}
}

func (u *TeamUsecase) List(ctx context.Context, userID string) ([]domain.Team, error) {
	teams, err := u.teams.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if teams == nil {
		teams = []domain.Team{}
	}
	return teams, nil
}

func (u *TeamUsecase) Create(ctx context.Context, userID string, in domain.CreateTeamInput) (*domain.Team, error) {
	t := &domain.Team{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		OwnerID:   userID,
		MemberIDs: []string{userID},
		CreatedAt: u.now().UTC(),
	}
	if err := u.teams.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrTeamNameConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create team: %w", err)
	}
	return t, nil
}

// ownedTeam reports teams owned by someone else as not found.
func (u *TeamUsecase) ownedTeam(ctx context.Context, userID, id string) (*domain.Team, error) {
	t, err := u.teams.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != userID {
		return nil, domain.ErrTeamNotFound
	}
	return t, nil
}

func (u *TeamUsecase) Delete(ctx context.Context, userID, id string) error {
	if _, err := u.ownedTeam(ctx, userID, id); err != nil {
		return err
	}
	return u.teams.Delete(ctx, id)
}

// Invite records an invitation, notifies the invitee if they already have an
// account and emails them either way. A failed email does not undo the
// invitation.
func (u *TeamUsecase) Invite(ctx context.Context, userID, teamID string, in domain.InviteInput) (*domain.Invitation, error) {
	team, err := u.ownedTeam(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	inviteeEmail := strings.ToLower(strings.TrimSpace(in.Email))

	invitee, err := u.users.FindByEmail(ctx, inviteeEmail)
	switch {
	case err == nil:
		if slices.Contains(team.MemberIDs, invitee.ID) {
			return nil, domain.ErrAlreadyMember
		}
	case errors.Is(err, domain.ErrUserNotFound):
		invitee = nil
	default:
		return nil, fmt.Errorf("find invitee: %w", err)
	}

	inv := &domain.Invitation{
		ID:           uuid.NewString(),
		TeamID:       team.ID,
		InviterID:    userID,
		InviteeEmail: inviteeEmail,
		Status:       domain.InvitationPending,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.invitations.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	if invitee != nil {
		invID := inv.ID
		if err := u.notifications.Create(ctx, &domain.Notification{
			ID:           uuid.NewString(),
			UserID:       invitee.ID,
			Type:         domain.NotificationInvitation,
			Message:      fmt.Sprintf("You have been invited to join %s", team.Name),
			InvitationID: &invID,
			CreatedAt:    u.now().UTC(),
		}); err != nil {
			return nil, fmt.Errorf("create notification: %w", err)
		}
	}

	u.sendInvitation(ctx, userID, team.Name, inv)
	return inv, nil
}

func (u *TeamUsecase) sendInvitation(ctx context.Context, inviterID, teamName string, inv *domain.Invitation) {
	inviter := "A teammate"
	if user, err := u.users.FindByID(ctx, inviterID); err == nil {
		inviter = user.Email
	}
	subject, body, err := email.Invitation(teamName, inviter, u.appBaseURL+"/notifications")
	if err == nil {
		err = u.email.Send(ctx, inv.InviteeEmail, subject, body)
	}
	if err != nil {
		u.logger.ErrorContext(ctx, "send invitation email", "invitation_id", inv.ID, "error", err)
	}
}

// Answer accepts or declines an invitation addressed to userID and returns
// the confirmation message.
func (u *TeamUsecase) Answer(ctx context.Context, userID, invitationID string, accept bool) (string, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	inv, err := u.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(inv.InviteeEmail, user.Email) {
		return "", domain.ErrInvitationNotFound
	}

	status, msg, verb := domain.InvitationDeclined, msgInvitationDeclined, "declined"
	if accept {
		status, msg, verb = domain.InvitationAccepted, msgInvitationAccepted, "accepted"
	}
	if err := u.invitations.Resolve(ctx, invitationID, status); err != nil {
		return "", err
	}
	if accept {
		if err := u.teams.AddMember(ctx, inv.TeamID, userID); err != nil && !errors.Is(err, domain.ErrAlreadyMember) {
			return "", fmt.Errorf("add member: %w", err)
		}
	}
	if err := u.notifications.MarkReadByInvitation(ctx, invitationID); err != nil {
		return "", fmt.Errorf("mark invitation notification: %w", err)
	}

	teamName := "the team"
	if team, err := u.teams.FindByID(ctx, inv.TeamID); err == nil {
		teamName = team.Name
	}
	if err := u.notifications.Create(ctx, &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    inv.InviterID,
		Type:      domain.NotificationInfo,
		Message:   fmt.Sprintf("%s %s your invitation to %s", user.Email, verb, teamName),
		CreatedAt: u.now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("notify inviter: %w", err)
	}
	return msg, nil
}

func (u *TeamUsecase) Notifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	items, err := u.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return items, nil
}

func (u *TeamUsecase) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	return u.notifications.MarkRead(ctx, userID, id)
}
