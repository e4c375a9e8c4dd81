package usecase

import (
	"context"
	"fmt"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/repository"
)

// AdminUsecase serves the admin dashboard.
type AdminUsecase struct {
	users repository.UserRepository
	teams repository.TeamRepository
	focus *FocusUsecase
}

func NewAdminUsecase(users repository.UserRepository, teams repository.TeamRepository, focus repository.FocusRepository) *AdminUsecase {
	return &AdminUsecase{users: users, teams: teams, focus: NewFocusUsecase(focus)}
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]domain.UserSummary, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	teams, err := u.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teamCount := make(map[string]int)
	for _, t := range teams {
		for _, id := range t.MemberIDs {
			teamCount[id]++
		}
	}

	out := make([]domain.UserSummary, 0, len(users))
	for _, user := range users {
		minutes, err := u.focus.TotalMinutes(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.UserSummary{User: user, TeamCount: teamCount[user.ID], FocusMinutes: minutes})
	}
	return out, nil
}

func (u *AdminUsecase) UpdateUser(ctx context.Context, id string, in domain.UpdateUserInput) (*domain.UserSummary, error) {
	if _, err := u.users.Update(ctx, id, in); err != nil {
		return nil, err
	}
	all, err := u.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// DeleteUser refuses to delete the calling admin.
func (u *AdminUsecase) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrForbidden
	}
	return u.users.Delete(ctx, id)
}

func (u *AdminUsecase) ListTeams(ctx context.Context) ([]domain.TeamSummary, error) {
	teams, err := u.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make([]domain.TeamSummary, 0, len(teams))
	for _, t := range teams {
		owner := ""
		if acct, err := u.users.FindByID(ctx, t.OwnerID); err == nil {
			owner = acct.Email
		}
		out = append(out, domain.TeamSummary{
			ID:          t.ID,
			Name:        t.Name,
			OwnerEmail:  owner,
			MemberCount: len(t.MemberIDs),
			CreatedAt:   t.CreatedAt,
		})
	}
	return out, nil
}

func (u *AdminUsecase) DeleteTeam(ctx context.Context, id string) error {
	return u.teams.Delete(ctx, id)
}
