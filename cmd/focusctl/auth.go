package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/guard"
	"github.com/ErlanBelekov/focusboard/internal/health"
	"github.com/ErlanBelekov/focusboard/internal/metrics"
	"github.com/ErlanBelekov/focusboard/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const dataURIPrefix = "data:image/png;base64,"

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with email and password",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Sources: cli.EnvVars("FOCUSBOARD_EMAIL")},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Sources: cli.EnvVars("FOCUSBOARD_PASSWORD")},
			&cli.StringFlag{Name: "code", Usage: "two-factor code; prompted for when omitted"},
		},
		Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
			if err := e.enter(ctx, guard.Login); err != nil {
				return err
			}
			s := e.app.Session
			if err := s.SubmitCredentials(ctx, cmd.String("email"), cmd.String("password")); err != nil {
				return err
			}
			if s.Snapshot().Status == session.StatusMFARequired {
				if err := verify(ctx, s, cmd.String("code")); err != nil {
					return err
				}
			}
			fmt.Println("signed in:", statusLine(s.Snapshot()))
			return nil
		}),
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "first-name", Required: true},
			&cli.StringFlag{Name: "last-name", Required: true},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, Sources: cli.EnvVars("FOCUSBOARD_PASSWORD")},
			&cli.BoolFlag{Name: "mfa", Usage: "enable two-factor authentication"},
			&cli.StringFlag{Name: "qr", Usage: "write the authenticator QR code PNG to this path", Value: "focusboard-mfa.png"},
			&cli.StringFlag{Name: "code", Usage: "two-factor code; prompted for when omitted"},
		},
		Action: withEnv(func(ctx context.Context, cmd *cli.Command, e *env) error {
			if err := e.enter(ctx, guard.Register); err != nil {
				return err
			}
			s := e.app.Session
			err := s.SubmitRegistration(ctx, domain.Registration{
				FirstName:  cmd.String("first-name"),
				LastName:   cmd.String("last-name"),
				Email:      cmd.String("email"),
				Password:   cmd.String("password"),
				MFAEnabled: cmd.Bool("mfa"),
			})
			if err != nil {
				return err
			}
			if snap := s.Snapshot(); snap.Status == session.StatusMFARequired {
				if err := writeQR(cmd.String("qr"), snap.SecretImageURI); err != nil {
					return err
				}
				fmt.Println("scan", cmd.String("qr"), "with your authenticator app")
				if err := verify(ctx, s, cmd.String("code")); err != nil {
					return err
				}
			}
			fmt.Println("registered:", statusLine(s.Snapshot()))
			return nil
		}),
	}
}

// verify answers the pending challenge, prompting until a code is accepted
// or input ends.
func verify(ctx context.Context, s *session.Store, code string) error {
	in := bufio.NewScanner(os.Stdin)
	for {
		if code == "" {
			fmt.Print("verification code: ")
			if !in.Scan() {
				return errVerifyFirst
			}
			code = strings.TrimSpace(in.Text())
		}
		err := s.SubmitVerificationCode(ctx, code)
		if err == nil {
			return nil
		}
		if errors.Is(err, session.ErrNoChallenge) {
			return err
		}
		fmt.Fprintln(os.Stderr, describe(err))
		code = ""
	}
}

func writeQR(path, uri string) error {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return fmt.Errorf("unexpected secret image format")
	}
	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, dataURIPrefix))
	if err != nil {
		return fmt.Errorf("decode secret image: %w", err)
	}
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return fmt.Errorf("write secret image: %w", err)
	}
	return nil
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and forget the stored token",
		Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
			if err := e.app.Session.Logout(ctx); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		}),
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed-in user",
		Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
			// Runs the expiry check before anything is shown.
			_ = e.app.Watchdog.Check(ctx)
			fmt.Println(statusLine(e.app.Session.Snapshot()))
			return nil
		}),
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check the backend and the token store",
		Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
			checker := health.NewChecker(map[string]health.Pinger{
				"api":         e.app.API,
				"token_store": e.pinger,
			}, e.logger, prometheus.NewRegistry())
			res := checker.Readiness(ctx)

			w := table()
			fmt.Fprintf(w, "session\t%s\n", statusLine(e.app.Session.Snapshot()))
			names := make([]string, 0, len(res.Checks))
			for name := range res.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				check := res.Checks[name]
				line := check.Status
				if check.Error != "" {
					line += " (" + check.Error + ")"
				}
				fmt.Fprintf(w, "%s\t%s\n", name, line)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if res.Status != health.StatusUp {
				return errors.New("one or more dependencies are down")
			}
			return nil
		}),
	}
}

// watchCommand keeps the watchdog running so an expired or externally
// cleared token is noticed without user action.
func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Run the session watchdog (and metrics server) until interrupted",
		Action: withEnv(func(ctx context.Context, _ *cli.Command, e *env) error {
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return e.app.Watchdog.Start(ctx) })

			if e.cfg.MetricsPort != "" {
				checker := health.NewChecker(map[string]health.Pinger{
					"api":         e.app.API,
					"token_store": e.pinger,
				}, e.logger, prometheus.DefaultRegisterer)
				srv := metrics.NewServer(":"+e.cfg.MetricsPort, checker)
				g.Go(func() error {
					e.logger.Info("metrics server started", "port", e.cfg.MetricsPort)
					return ignoreClosed(srv.ListenAndServe())
				})
				g.Go(func() error {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					return srv.Shutdown(shutdownCtx)
				})
			}

			fmt.Println("watching session:", statusLine(e.app.Session.Snapshot()))
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}),
	}
}
