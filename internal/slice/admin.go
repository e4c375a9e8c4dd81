package slice

import (
	"context"
	"log/slog"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/resource"
)

type AdminAPI interface {
	AdminListUsers(ctx context.Context) ([]domain.UserSummary, error)
	AdminUpdateUser(ctx context.Context, id string, in domain.UpdateUserInput) (domain.UserSummary, error)
	AdminDeleteUser(ctx context.Context, id string) error
	AdminListTeams(ctx context.Context) ([]domain.TeamSummary, error)
	AdminDeleteTeam(ctx context.Context, id string) error
}

type AdminUsers struct {
	*resource.Slice[domain.UserSummary, struct{}, domain.UpdateUserInput]
}

func NewAdminUsers(api AdminAPI, logger *slog.Logger) *AdminUsers {
	return &AdminUsers{resource.New(
		resource.Backend[domain.UserSummary, struct{}, domain.UpdateUserInput]{
			List:   api.AdminListUsers,
			Update: api.AdminUpdateUser,
			Delete: api.AdminDeleteUser,
		},
		resource.Options[domain.UserSummary, domain.UpdateUserInput]{
			Name:       "admin_user",
			Discipline: resource.Confirmed,
		},
		logger,
	)}
}

func (a *AdminUsers) SetRole(ctx context.Context, id string, role domain.Role) (domain.UserSummary, error) {
	return a.Update(ctx, id, domain.UpdateUserInput{Role: &role})
}

type AdminTeams struct {
	*resource.Slice[domain.TeamSummary, struct{}, struct{}]
}

func NewAdminTeams(api AdminAPI, logger *slog.Logger) *AdminTeams {
	return &AdminTeams{resource.New(
		resource.Backend[domain.TeamSummary, struct{}, struct{}]{
			List:   api.AdminListTeams,
			Delete: api.AdminDeleteTeam,
		},
		resource.Options[domain.TeamSummary, struct{}]{
			Name:       "admin_team",
			Discipline: resource.Confirmed,
		},
		logger,
	)}
}
