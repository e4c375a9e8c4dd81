package memory

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/repository"
)

type TeamRepository struct{ s *Store }

func cloneTeam(t domain.Team) domain.Team {
	t.MemberIDs = slices.Clone(t.MemberIDs)
	return t
}

func (r *TeamRepository) Create(_ context.Context, t *domain.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.teams {
		if existing.OwnerID == t.OwnerID && strings.EqualFold(existing.Name, t.Name) {
			return domain.ErrTeamNameConflict
		}
	}
	r.s.teams[t.ID] = cloneTeam(*t)
	return nil
}

func (r *TeamRepository) FindByID(_ context.Context, id string) (*domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.teams[id]
	if !ok {
		return nil, domain.ErrTeamNotFound
	}
	t = cloneTeam(t)
	return &t, nil
}

func (r *TeamRepository) ListByMember(_ context.Context, userID string) ([]domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Team
	for _, t := range r.s.teams {
		if slices.Contains(t.MemberIDs, userID) {
			out = append(out, cloneTeam(t))
		}
	}
	sortTeams(out)
	return out, nil
}

func (r *TeamRepository) List(_ context.Context) ([]domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Team, 0, len(r.s.teams))
	for _, t := range r.s.teams {
		out = append(out, cloneTeam(t))
	}
	sortTeams(out)
	return out, nil
}

func sortTeams(teams []domain.Team) {
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].CreatedAt.Equal(teams[j].CreatedAt) {
			return teams[i].ID < teams[j].ID
		}
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
}

func (r *TeamRepository) AddMember(_ context.Context, teamID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.teams[teamID]
	if !ok {
		return domain.ErrTeamNotFound
	}
	if slices.Contains(t.MemberIDs, userID) {
		return domain.ErrAlreadyMember
	}
	t.MemberIDs = append(slices.Clone(t.MemberIDs), userID)
	r.s.teams[teamID] = t
	return nil
}

func (r *TeamRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[id]; !ok {
		return domain.ErrTeamNotFound
	}
	delete(r.s.teams, id)
	return nil
}

type InvitationRepository struct{ s *Store }

func (r *InvitationRepository) Create(_ context.Context, inv *domain.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invitations[inv.ID] = *inv
	return nil
}

func (r *InvitationRepository) FindByID(_ context.Context, id string) (*domain.Invitation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invitations[id]
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	return &inv, nil
}

func (r *InvitationRepository) Resolve(_ context.Context, id string, status domain.InvitationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	if inv.Status != domain.InvitationPending {
		return domain.ErrInvitationResolved
	}
	inv.Status = status
	r.s.invitations[id] = inv
	return nil
}

type NotificationRepository struct{ s *Store }

func (r *NotificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID, id string) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNotificationNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return &n, nil
}

func (r *NotificationRepository) MarkReadByInvitation(_ context.Context, invitationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, n := range r.s.notifications {
		if n.InvitationID != nil && *n.InvitationID == invitationID {
			n.Read = true
			r.s.notifications[id] = n
		}
	}
	return nil
}

var (
	_ repository.TeamRepository         = (*TeamRepository)(nil)
	_ repository.InvitationRepository   = (*InvitationRepository)(nil)
	_ repository.NotificationRepository = (*NotificationRepository)(nil)
)
