package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/guard"
	"github.com/urfave/cli/v3"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrator dashboard",
		Commands: []*cli.Command{
			{
				Name:  "users",
				Usage: "List every user with team and focus totals",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.AdminUsers); err != nil {
						return err
					}
					if err := e.app.AdminUsers.FetchAll(ctx); err != nil {
						return err
					}
					w := table()
					fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tMFA\tTEAMS\tFOCUS")
					for _, u := range e.app.AdminUsers.List() {
						fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%t\t%d\t%dm\n",
							u.ID, u.Email, u.FirstName, u.LastName, u.Role, u.MFAEnabled, u.TeamCount, u.FocusMinutes)
					}
					return w.Flush()
				}),
			},
			{
				Name:      "set-role",
				ArgsUsage: "USER_ID USER|ADMIN",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "USER_ID")
					if err != nil {
						return err
					}
					role, err := arg(cmd, 1, "ROLE")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.AdminUsers); err != nil {
						return err
					}
					if err := e.app.AdminUsers.FetchAll(ctx); err != nil {
						return err
					}
					u, err := e.app.AdminUsers.SetRole(ctx, id, domain.Role(strings.ToUpper(role)))
					if err != nil {
						return err
					}
					fmt.Printf("%s is now %s\n", u.Email, u.Role)
					return nil
				}),
			},
			{
				Name:      "rm-user",
				ArgsUsage: "USER_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "USER_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.AdminUsers); err != nil {
						return err
					}
					if err := e.app.AdminUsers.FetchAll(ctx); err != nil {
						return err
					}
					if err := e.app.AdminUsers.Remove(ctx, id); err != nil {
						return err
					}
					fmt.Println("deleted user", id)
					return nil
				}),
			},
			{
				Name:  "teams",
				Usage: "List every team",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.AdminTeams); err != nil {
						return err
					}
					if err := e.app.AdminTeams.FetchAll(ctx); err != nil {
						return err
					}
					w := table()
					fmt.Fprintln(w, "ID\tNAME\tOWNER\tMEMBERS\tCREATED")
					for _, t := range e.app.AdminTeams.List() {
						fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", t.ID, t.Name, t.OwnerEmail, t.MemberCount, t.CreatedAt.Local().Format(time.DateOnly))
					}
					return w.Flush()
				}),
			},
			{
				Name:      "rm-team",
				ArgsUsage: "TEAM_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "TEAM_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.AdminTeams); err != nil {
						return err
					}
					if err := e.app.AdminTeams.FetchAll(ctx); err != nil {
						return err
					}
					if err := e.app.AdminTeams.Remove(ctx, id); err != nil {
						return err
					}
					fmt.Println("deleted team", id)
					return nil
				}),
			},
		},
	}
}
