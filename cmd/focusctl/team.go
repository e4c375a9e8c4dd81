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

func notificationsCommand() *cli.Command {
	return &cli.Command{
		Name:    "notifications",
		Aliases: []string{"inbox"},
		Usage:   "Notifications and pending invitations",
		Commands: []*cli.Command{
			{
				Name: "list",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.Notifications); err != nil {
						return err
					}
					if err := e.app.Notifications.FetchAll(ctx); err != nil {
						return err
					}
					w := table()
					fmt.Fprintln(w, "ID\tTYPE\tREAD\tINVITATION\tMESSAGE")
					for _, n := range e.app.Notifications.List() {
						inv := "-"
						if n.InvitationID != nil {
							inv = *n.InvitationID
						}
						fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", n.ID, n.Type, n.Read, inv, n.Message)
					}
					if err := w.Flush(); err != nil {
						return err
					}
					fmt.Printf("%d unread\n", e.app.Notifications.Unread())
					return nil
				}),
			},
			{
				Name:      "read",
				ArgsUsage: "NOTIFICATION_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "NOTIFICATION_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.Notifications); err != nil {
						return err
					}
					if err := e.app.Notifications.FetchAll(ctx); err != nil {
						return err
					}
					if _, err := e.app.Notifications.MarkRead(ctx, id); err != nil {
						return err
					}
					fmt.Println("marked read", id)
					return nil
				}),
			},
		},
	}
}

func inviteCommand() *cli.Command {
	answer := func(accept bool) actionFunc {
		return func(ctx context.Context, cmd *cli.Command, e *env) error {
			id, err := arg(cmd, 0, "INVITATION_ID")
			if err != nil {
				return err
			}
			if err := e.enter(ctx, guard.Notifications); err != nil {
				return err
			}
			var msg string
			if accept {
				msg, err = e.app.Invitations.Accept(ctx, id)
			} else {
				msg, err = e.app.Invitations.Decline(ctx, id)
			}
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		}
	}
	return &cli.Command{
		Name:  "invite",
		Usage: "Answer a team invitation",
		Commands: []*cli.Command{
			{Name: "accept", ArgsUsage: "INVITATION_ID", Action: withEnv(answer(true))},
			{Name: "decline", ArgsUsage: "INVITATION_ID", Action: withEnv(answer(false))},
		},
	}
}

func teamCommand() *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "Teams you own or belong to",
		Commands: []*cli.Command{
			{
				Name: "list",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.Teams); err != nil {
						return err
					}
					if err := e.app.Teams.FetchAll(ctx); err != nil {
						return err
					}
					self := e.app.Session.Snapshot().User
					w := table()
					fmt.Fprintln(w, "ID\tNAME\tMEMBERS\tOWNER\tCREATED")
					for _, t := range e.app.Teams.List() {
						owner := ""
						if self != nil && t.OwnerID == self.ID {
							owner = "you"
						}
						fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", t.ID, t.Name, len(t.MemberIDs), owner, t.CreatedAt.Local().Format(time.DateOnly))
					}
					return w.Flush()
				}),
			},
			{
				Name:      "create",
				ArgsUsage: "NAME",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.Teams); err != nil {
						return err
					}
					t, err := e.app.Teams.Create(ctx, domain.CreateTeamInput{Name: strings.Join(cmd.Args().Slice(), " ")})
					if err != nil {
						return err
					}
					fmt.Println("created team", t.ID)
					return nil
				}),
			},
			{
				Name:      "invite",
				ArgsUsage: "TEAM_ID EMAIL",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					teamID, err := arg(cmd, 0, "TEAM_ID")
					if err != nil {
						return err
					}
					email, err := arg(cmd, 1, "EMAIL")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.Teams); err != nil {
						return err
					}
					inv, err := e.app.Teams.Invite(ctx, teamID, domain.InviteInput{Email: email})
					if err != nil {
						return err
					}
					fmt.Printf("invited %s (%s)\n", inv.InviteeEmail, inv.ID)
					return nil
				}),
			},
			{
				Name:      "rm",
				ArgsUsage: "TEAM_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "TEAM_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.Teams); err != nil {
						return err
					}
					if err := e.app.Teams.FetchAll(ctx); err != nil {
						return err
					}
					if err := e.app.Teams.Remove(ctx, id); err != nil {
						return err
					}
					fmt.Println("deleted", id)
					return nil
				}),
			},
		},
	}
}
