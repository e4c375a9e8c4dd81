package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/guard"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// loadBoard fetches columns and tasks together.
func loadBoard(ctx context.Context, e *env) error {
	if err := e.enter(ctx, guard.Board); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.app.Columns.FetchAll(ctx) })
	g.Go(func() error { return e.app.Tasks.FetchAll(ctx) })
	return g.Wait()
}

func boardCommand() *cli.Command {
	return &cli.Command{
		Name:  "board",
		Usage: "Show the Kanban board",
		Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
			if err := loadBoard(ctx, e); err != nil {
				return err
			}
			for _, col := range e.app.Columns.Ordered() {
				fmt.Printf("== %s (%s)\n", col.Title, col.ID)
				for _, t := range e.app.Tasks.InColumn(col.ID) {
					fmt.Printf("  %d. [%s] %s (%s)\n", t.Position+1, t.Priority, t.Title, t.ID)
				}
			}
			return nil
		}),
	}
}

func columnCommand() *cli.Command {
	return &cli.Command{
		Name:  "column",
		Usage: "Manage board columns",
		Commands: []*cli.Command{
			{
				Name:      "add",
				ArgsUsage: "TITLE",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.Board); err != nil {
						return err
					}
					col, err := e.app.Columns.Create(ctx, domain.CreateColumnInput{Title: strings.Join(cmd.Args().Slice(), " ")})
					if err != nil {
						return err
					}
					fmt.Println("created column", col.ID)
					return nil
				}),
			},
			{
				Name:      "rename",
				ArgsUsage: "COLUMN_ID TITLE",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "COLUMN_ID")
					if err != nil {
						return err
					}
					if err := loadBoard(ctx, e); err != nil {
						return err
					}
					col, err := e.app.Columns.Rename(ctx, id, strings.Join(cmd.Args().Tail(), " "))
					if err != nil {
						return err
					}
					fmt.Println("renamed to", col.Title)
					return nil
				}),
			},
			{
				Name:      "rm",
				ArgsUsage: "COLUMN_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "COLUMN_ID")
					if err != nil {
						return err
					}
					if err := loadBoard(ctx, e); err != nil {
						return err
					}
					if err := e.app.Columns.Remove(ctx, id); err != nil {
						return err
					}
					fmt.Println("deleted", id)
					return nil
				}),
			},
		},
	}
}

func taskCommand() *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Manage board tasks",
		Commands: []*cli.Command{
			{
				Name: "add",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "column", Aliases: []string{"c"}, Required: true},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
					&cli.StringFlag{Name: "priority", Usage: "LOW, MEDIUM or HIGH"},
				},
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					if err := e.enter(ctx, guard.Board); err != nil {
						return err
					}
					t, err := e.app.Tasks.Create(ctx, domain.CreateTaskInput{
						ColumnID:    cmd.String("column"),
						Title:       cmd.String("title"),
						Description: cmd.String("description"),
						Priority:    domain.Priority(strings.ToUpper(cmd.String("priority"))),
					})
					if err != nil {
						return err
					}
					fmt.Println("created task", t.ID)
					return nil
				}),
			},
			{
				Name:      "edit",
				ArgsUsage: "TASK_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}},
					&cli.StringFlag{Name: "priority"},
				},
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "TASK_ID")
					if err != nil {
						return err
					}
					if err := loadBoard(ctx, e); err != nil {
						return err
					}
					var in domain.UpdateTaskInput
					if cmd.IsSet("title") {
						v := cmd.String("title")
						in.Title = &v
					}
					if cmd.IsSet("description") {
						v := cmd.String("description")
						in.Description = &v
					}
					if cmd.IsSet("priority") {
						v := domain.Priority(strings.ToUpper(cmd.String("priority")))
						in.Priority = &v
					}
					t, err := e.app.Tasks.Update(ctx, id, in)
					if err != nil {
						return err
					}
					fmt.Printf("updated %s: [%s] %s\n", t.ID, t.Priority, t.Title)
					return nil
				}),
			},
			{
				Name:      "move",
				ArgsUsage: "TASK_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "column", Aliases: []string{"c"}, Required: true},
					&cli.IntFlag{Name: "position", Usage: "0-based slot in the target column"},
				},
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "TASK_ID")
					if err != nil {
						return err
					}
					if err := loadBoard(ctx, e); err != nil {
						return err
					}
					t, err := e.app.Tasks.Move(ctx, id, domain.MoveTaskInput{
						ColumnID: cmd.String("column"),
						Position: int(cmd.Int("position")),
					})
					if err != nil {
						return err
					}
					fmt.Printf("moved %s to position %d\n", t.ID, t.Position)
					return nil
				}),
			},
			{
				Name:      "rm",
				ArgsUsage: "TASK_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "TASK_ID")
					if err != nil {
						return err
					}
					if err := loadBoard(ctx, e); err != nil {
						return err
					}
					if err := e.app.Tasks.Remove(ctx, id); err != nil {
						return err
					}
					fmt.Println("deleted", id)
					return nil
				}),
			},
		},
	}
}

func commentCommand() *cli.Command {
	return &cli.Command{
		Name:  "comment",
		Usage: "Task comments",
		Commands: []*cli.Command{
			{
				Name:      "list",
				ArgsUsage: "TASK_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					taskID, err := arg(cmd, 0, "TASK_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.Board); err != nil {
						return err
					}
					if err := e.app.Comments.FetchForTask(ctx, taskID); err != nil {
						return err
					}
					for _, c := range e.app.Comments.List() {
						fmt.Printf("%s  %s: %s\n", c.ID, c.AuthorEmail, c.Content)
					}
					return nil
				}),
			},
			{
				Name:      "add",
				ArgsUsage: "TASK_ID TEXT",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					taskID, err := arg(cmd, 0, "TASK_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.Board); err != nil {
						return err
					}
					c, err := e.app.Comments.Create(ctx, domain.CreateCommentInput{
						TaskID:  taskID,
						Content: strings.Join(cmd.Args().Tail(), " "),
					})
					if err != nil {
						return err
					}
					fmt.Println("commented", c.ID)
					return nil
				}),
			},
			{
				Name:      "rm",
				ArgsUsage: "COMMENT_ID",
				Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
					id, err := arg(cmd, 0, "COMMENT_ID")
					if err != nil {
						return err
					}
					if err := e.enter(ctx, guard.Board); err != nil {
						return err
					}
					if err := e.app.Comments.Remove(ctx, id); err != nil {
						return err
					}
					fmt.Println("deleted", id)
					return nil
				}),
			},
		},
	}
}
