package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/guard"
	"github.com/urfave/cli/v3"
)

func focusCommand() *cli.Command {
	return &cli.Command{
		Name:  "focus",
		Usage: "Focus timer sessions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List focus sessions, newest first",
				Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.Focus); err != nil {
						return err
					}
					if err := e.app.Focus.FetchAll(ctx); err != nil {
						return err
					}
					w := table()
					fmt.Fprintln(w, "ID\tSTATUS\tTARGET\tACTUAL\tSTARTED\tDESCRIPTION")
					for _, s := range e.app.Focus.List() {
						fmt.Fprintf(w, "%s\t%s\t%dm\t%dm\t%s\t%s\n",
							s.ID, s.Status, s.TargetMinutes, s.ActualMinutes, s.StartedAt.Local().Format(time.DateTime), s.Description)
					}
					return w.Flush()
				}),
			},
			{
				Name:  "start",
				Usage: "Start a focus session",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "minutes", Aliases: []string{"m"}, Value: 25, Usage: "target length"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
				},
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.Focus); err != nil {
						return err
					}
					s, err := e.app.Focus.Start(ctx, domain.StartFocusInput{
						TargetMinutes: int(cmd.Int("minutes")),
						Description:   cmd.String("description"),
					})
					if err != nil {
						return err
					}
					fmt.Printf("started %s: %d minutes\n", s.ID, s.TargetMinutes)
					return nil
				}),
			},
			{
				Name:      "end",
				Usage:     "End a focus session",
				ArgsUsage: "SESSION_ID",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "minutes", Aliases: []string{"m"}, Required: true, Usage: "minutes actually focused"},
					&cli.BoolFlag{Name: "completed", Usage: "count the session as completed even if short"},
				},
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "SESSION_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.Focus); err != nil {
						return err
					}
					in := domain.EndFocusInput{ActualMinutes: int(cmd.Int("minutes"))}
					if cmd.IsSet("completed") {
						completed := cmd.Bool("completed")
						in.Completed = &completed
					}
					s, err := e.app.Focus.End(ctx, id, in)
					if err != nil {
						return err
					}
					fmt.Printf("%s: %s after %d minutes\n", s.ID, s.Status, s.ActualMinutes)
					return nil
				}),
			},
			{
				Name:      "cancel",
				Usage:     "Delete a focus session",
				ArgsUsage: "SESSION_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "SESSION_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.Focus); err != nil {
						return err
					}
					if err := e.app.Focus.Cancel(ctx, id); err != nil {
						return err
					}
					fmt.Println("deleted", id)
					return nil
				}),
			},
		},
	}
}
