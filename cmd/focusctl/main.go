// focusctl is the command-line front end of the focusboard client.
// Run: go run ./cmd/focusctl --help
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

type actionFunc func(ctx context.Context, cmd *cli.Command, e *env) error

// withEnv builds the client for one invocation and tears it down after.
func withEnv(fn actionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		e, err := setup(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(ctx, cmd, e)
	}
}

// arg returns positional argument i or an error naming it.
func arg(cmd *cli.Command, i int, name string) (string, error) {
	v := cmd.Args().Get(i)
	if v == "" {
		return "", fmt.Errorf("%w: %s", errMissingInput, name)
	}
	return v, nil
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func main() {
	cmd := &cli.Command{
		Name:  "focusctl",
		Usage: "Focus timer, Kanban board and teams from the terminal",
		Commands: []*cli.Command{
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			whoamiCommand(),
			statusCommand(),
			watchCommand(),
			focusCommand(),
			boardCommand(),
			columnCommand(),
			taskCommand(),
			commentCommand(),
			notificationsCommand(),
			inviteCommand(),
			teamCommand(),
			adminCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "focusctl:", describe(err))
		stop()
		os.Exit(1)
	}
}
