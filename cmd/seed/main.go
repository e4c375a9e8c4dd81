// seed fills a running backend with a demo user, a board, a few focus
// sessions and a team with a pending invitation.
// Run: go run ./cmd/seed (with the devserver up)
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/focusboard/config"
	"github.com/ErlanBelekov/focusboard/internal/apiclient"
	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	ctxlog "github.com/ErlanBelekov/focusboard/internal/log"
	_ "github.com/joho/godotenv/autoload"
)

const (
	seedEmail    = "seed@test.local"
	teammate     = "teammate@test.local"
	seedPassword = "seed-password-123"
)

type taskSpec struct {
	column   int
	title    string
	priority domain.Priority
}

var columns = []string{"Backlog", "In progress", "Done"}

var tasks = []taskSpec{
	{0, "Write onboarding guide", domain.PriorityMedium},
	{0, "Plan sprint review", domain.PriorityLow},
	{0, "Fix flaky login test", domain.PriorityHigh},
	{1, "Draft quarterly goals", domain.PriorityHigh},
	{1, "Review pull requests", domain.PriorityMedium},
	{2, "Set up the board", domain.PriorityLow},
}

type staticToken string

func (t staticToken) Token() string { return string(t) }

func main() {
	ctx := context.Background()

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := ctxlog.New(os.Stderr, cfg.Env, cfg.SlogLevel())
	client := apiclient.New(cfg.APIBaseURL, 30*time.Second, logger)

	owner, err := account(ctx, client, seedEmail, "Seed", "User")
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}
	if _, err := account(ctx, client, teammate, "Team", "Mate"); err != nil {
		log.Fatalf("teammate: %v", err)
	}

	api := client.WithTokenSource(staticToken(owner.AccessToken))

	existing, err := api.ListColumns(ctx)
	if err != nil {
		log.Fatalf("list columns: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%s already has a board (%d columns), nothing to do\n", seedEmail, len(existing))
		return
	}

	columnIDs := make([]string, 0, len(columns))
	for _, title := range columns {
		col, err := api.CreateColumn(ctx, domain.CreateColumnInput{Title: title})
		if err != nil {
			log.Fatalf("create column %q: %v", title, err)
		}
		columnIDs = append(columnIDs, col.ID)
	}

	var firstTask string
	for _, spec := range tasks {
		t, err := api.CreateTask(ctx, domain.CreateTaskInput{
			ColumnID: columnIDs[spec.column],
			Title:    spec.title,
			Priority: spec.priority,
		})
		if err != nil {
			log.Fatalf("create task %q: %v", spec.title, err)
		}
		if firstTask == "" {
			firstTask = t.ID
		}
	}
	if _, err := api.CreateComment(ctx, domain.CreateCommentInput{TaskID: firstTask, Content: "Start with the install steps."}); err != nil {
		log.Fatalf("create comment: %v", err)
	}

	// One completed session, one cut short, one still running.
	for _, minutes := range []int{25, 50} {
		s, err := api.StartFocusSession(ctx, domain.StartFocusInput{TargetMinutes: minutes, Description: "seed"})
		if err != nil {
			log.Fatalf("start focus: %v", err)
		}
		if _, err := api.EndFocusSession(ctx, s.ID, domain.EndFocusInput{ActualMinutes: 25}); err != nil {
			log.Fatalf("end focus: %v", err)
		}
	}
	if _, err := api.StartFocusSession(ctx, domain.StartFocusInput{TargetMinutes: 25, Description: "in progress"}); err != nil {
		log.Fatalf("start focus: %v", err)
	}

	team, err := api.CreateTeam(ctx, domain.CreateTeamInput{Name: "Seed team"})
	if err != nil {
		log.Fatalf("create team: %v", err)
	}
	inv, err := api.InviteToTeam(ctx, team.ID, domain.InviteInput{Email: teammate})
	if err != nil {
		log.Fatalf("invite: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:       %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  Teammate:   %s / %s\n", teammate, seedPassword)
	fmt.Printf("  Columns:    %d, tasks: %d\n", len(columns), len(tasks))
	fmt.Printf("  Team:       %s (%s)\n", team.Name, team.ID)
	fmt.Printf("  Invitation: %s\n", inv.ID)
	fmt.Println()
	fmt.Println("Try it:")
	fmt.Println()
	fmt.Printf("  focusctl login -e %s -p %s\n", seedEmail, seedPassword)
	fmt.Println("  focusctl board")
	fmt.Println("  focusctl focus list")
	fmt.Println()
	fmt.Printf("  focusctl login -e %s -p %s\n", teammate, seedPassword)
	fmt.Printf("  focusctl invite accept %s\n", inv.ID)
}

// account registers email, or signs in when it already exists so re-runs
// are harmless.
func account(ctx context.Context, c *apiclient.Client, email, first, last string) (*domain.AuthResponse, error) {
	resp, err := c.Register(ctx, domain.Registration{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  seedPassword,
	})
	if err == nil {
		return resp, nil
	}
	if !errors.Is(err, apperr.ErrUnknown) {
		return nil, err
	}
	return c.Authenticate(ctx, domain.Credentials{Email: email, Password: seedPassword})
}
