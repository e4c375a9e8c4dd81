package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/infrastructure/memory"
	"github.com/ErlanBelekov/focusboard/internal/usecase"
)

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

func newTeams(store *memory.Store, sender *fakeEmailSender) *usecase.TeamUsecase {
	return usecase.NewTeamUsecase(store.Teams(), store.Invitations(), store.Notifications(), store.Users(), sender,
		"http://localhost:3000", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seedUsers(t *testing.T, store *memory.Store) {
	t.Helper()
	for _, u := range []domain.User{{ID: "owner", Email: "owner@example.com"}, {ID: "guest", Email: "guest@example.com"}} {
		if err := store.Users().Create(context.Background(), &domain.Account{User: u}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestTeam_InviteAcceptFlow(t *testing.T) {
	store := memory.NewStore()
	seedUsers(t, store)
	var mailedTo string
	uc := newTeams(store, &fakeEmailSender{send: func(_ context.Context, to, _, _ string) error {
		mailedTo = to
		return nil
	}})
	ctx := context.Background()

	team, err := uc.Create(ctx, "owner", domain.CreateTeamInput{Name: "Core"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	inv, err := uc.Invite(ctx, "owner", team.ID, domain.InviteInput{Email: "Guest@example.com"})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if mailedTo != "guest@example.com" {
		t.Errorf("email sent to %q", mailedTo)
	}

	notes, _ := uc.Notifications(ctx, "guest")
	if len(notes) != 1 || notes[0].Type != domain.NotificationInvitation || *notes[0].InvitationID != inv.ID {
		t.Fatalf("guest notifications = %+v", notes)
	}

	msg, err := uc.Answer(ctx, "guest", inv.ID, true)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if msg != "Invitation accepted" {
		t.Errorf("message = %q", msg)
	}

	teams, _ := uc.List(ctx, "guest")
	if len(teams) != 1 || !slices.Contains(teams[0].MemberIDs, "guest") {
		t.Errorf("guest teams = %+v", teams)
	}
	notes, _ = uc.Notifications(ctx, "guest")
	if !notes[0].Read {
		t.Error("invitation notification must be marked read once answered")
	}
	ownerNotes, _ := uc.Notifications(ctx, "owner")
	if len(ownerNotes) != 1 || ownerNotes[0].Type != domain.NotificationInfo {
		t.Errorf("owner notifications = %+v", ownerNotes)
	}

	if _, err := uc.Answer(ctx, "guest", inv.ID, false); !errors.Is(err, domain.ErrInvitationResolved) {
		t.Errorf("want ErrInvitationResolved, got %v", err)
	}
}

func TestTeam_InviteEmailFailureKeepsInvitation(t *testing.T) {
	store := memory.NewStore()
	seedUsers(t, store)
	uc := newTeams(store, &fakeEmailSender{send: func(context.Context, string, string, string) error {
		return errors.New("smtp down")
	}})
	ctx := context.Background()
	team, _ := uc.Create(ctx, "owner", domain.CreateTeamInput{Name: "Core"})

	inv, err := uc.Invite(ctx, "owner", team.ID, domain.InviteInput{Email: "guest@example.com"})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if _, err := store.Invitations().FindByID(ctx, inv.ID); err != nil {
		t.Errorf("invitation must be stored: %v", err)
	}
}

func TestTeam_Rules(t *testing.T) {
	store := memory.NewStore()
	seedUsers(t, store)
	uc := newTeams(store, &fakeEmailSender{send: func(context.Context, string, string, string) error { return nil }})
	ctx := context.Background()
	team, _ := uc.Create(ctx, "owner", domain.CreateTeamInput{Name: "Core"})

	if _, err := uc.Create(ctx, "owner", domain.CreateTeamInput{Name: "core"}); !errors.Is(err, domain.ErrTeamNameConflict) {
		t.Errorf("duplicate name: want ErrTeamNameConflict, got %v", err)
	}
	if _, err := uc.Invite(ctx, "owner", team.ID, domain.InviteInput{Email: "owner@example.com"}); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Errorf("self invite: want ErrAlreadyMember, got %v", err)
	}
	if _, err := uc.Invite(ctx, "guest", team.ID, domain.InviteInput{Email: "x@example.com"}); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Errorf("non-owner invite: want ErrTeamNotFound, got %v", err)
	}
	if err := uc.Delete(ctx, "guest", team.ID); !errors.Is(err, domain.ErrTeamNotFound) {
		t.Errorf("non-owner delete: want ErrTeamNotFound, got %v", err)
	}
}
