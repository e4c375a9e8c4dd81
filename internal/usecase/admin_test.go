package usecase_test

import (
	"context"
	"testing"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/infrastructure/memory"
	"github.com/ErlanBelekov/focusboard/internal/usecase"
)

func TestAdmin_ListUsersSumsEndedFocusMinutes(t *testing.T) {
	store := memory.NewStore()
	seedUsers(t, store)
	ctx := context.Background()
	focus := usecase.NewFocusUsecase(store.Focus())

	for _, minutes := range []int{25, 10} {
		s, err := focus.Start(ctx, "owner", domain.StartFocusInput{TargetMinutes: 25})
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := focus.End(ctx, "owner", s.ID, domain.EndFocusInput{ActualMinutes: minutes}); err != nil {
			t.Fatalf("end: %v", err)
		}
	}
	// Still running, so it has no recorded minutes yet.
	if _, err := focus.Start(ctx, "owner", domain.StartFocusInput{TargetMinutes: 50}); err != nil {
		t.Fatalf("start: %v", err)
	}

	admin := usecase.NewAdminUsecase(store.Users(), store.Teams(), store.Focus())
	users, err := admin.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}

	got := make(map[string]int)
	for _, u := range users {
		got[u.ID] = u.FocusMinutes
	}
	if got["owner"] != 35 {
		t.Errorf("owner focus minutes = %d, want 35", got["owner"])
	}
	if m, ok := got["guest"]; !ok || m != 0 {
		t.Errorf("guest focus minutes = %d (listed %v), want 0", m, ok)
	}
}
