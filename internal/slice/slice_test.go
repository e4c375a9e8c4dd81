package slice_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ErlanBelekov/focusboard/internal/apiclient"
	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/slice"
	"github.com/ErlanBelekov/focusboard/internal/testutil"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// signIn registers email without MFA and returns a client carrying its
// token together with the user.
func signIn(t *testing.T, b *testutil.Backend, email string) (*apiclient.Client, *domain.User) {
	t.Helper()
	resp := b.Register(t, email, false)
	client := apiclient.New(b.URL, 0, testutil.Quiet()).WithTokenSource(staticToken(resp.AccessToken))
	return client, resp.User
}

func TestFocus_StartAndEnd(t *testing.T) {
	b := testutil.StartBackend(t)
	client, _ := signIn(t, b, "ada@example.com")
	focus := slice.NewFocus(client, testutil.Quiet())
	ctx := context.Background()

	s, err := focus.Start(ctx, domain.StartFocusInput{TargetMinutes: 25, Description: "draft release notes"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Status != domain.FocusInProgress || s.ActualMinutes != 0 {
		t.Errorf("started = %+v", s)
	}
	if active, ok := focus.Active(); !ok || active.ID != s.ID {
		t.Errorf("active = %+v, %v", active, ok)
	}

	ended, err := focus.End(ctx, s.ID, domain.EndFocusInput{ActualMinutes: 25})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Status != domain.FocusCompleted {
		t.Errorf("status = %s, want COMPLETED", ended.Status)
	}
	cached, ok := focus.Get(s.ID)
	if !ok || cached.Status != domain.FocusCompleted || cached.ActualMinutes != 25 {
		t.Errorf("cached = %+v, %v", cached, ok)
	}
	if _, ok := focus.Active(); ok {
		t.Error("no session should be active after ending")
	}

	_, err = focus.End(ctx, s.ID, domain.EndFocusInput{ActualMinutes: 30})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("second end: want Validation, got %v", err)
	}
	if got := apperr.MessageOf(err); got != domain.ErrFocusSessionEnded.Error() {
		t.Errorf("message = %q", got)
	}
	if cached, _ := focus.Get(s.ID); cached.ActualMinutes != 25 {
		t.Errorf("confirmed failure must leave the cache alone, got %+v", cached)
	}
}

func TestFocus_InvalidInputNeverReachesServer(t *testing.T) {
	b := testutil.StartBackend(t)
	client, user := signIn(t, b, "ada@example.com")
	focus := slice.NewFocus(client, testutil.Quiet())

	_, err := focus.Start(context.Background(), domain.StartFocusInput{TargetMinutes: 0})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("want Validation, got %v", err)
	}
	stored, _ := b.Store.Focus().ListByUser(context.Background(), user.ID)
	if len(stored) != 0 {
		t.Errorf("server recorded %d sessions", len(stored))
	}
}

func TestColumns_RenameRollsBackWhenServerRejects(t *testing.T) {
	b := testutil.StartBackend(t)
	client, user := signIn(t, b, "ada@example.com")
	columns := slice.NewColumns(client, testutil.Quiet())
	ctx := context.Background()

	col, err := columns.Create(ctx, domain.CreateColumnInput{Title: "Todo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Gone on the server, still cached locally.
	if err := b.Store.Columns().Delete(ctx, user.ID, col.ID); err != nil {
		t.Fatalf("delete behind the client's back: %v", err)
	}

	_, err = columns.Rename(ctx, col.ID, "Doing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
	cached, ok := columns.Get(col.ID)
	if !ok || cached.Title != "Todo" {
		t.Errorf("cached = %+v, %v; want original title restored", cached, ok)
	}
	if columns.LastError() != nil {
		t.Errorf("mutation failures must not set LastError, got %v", columns.LastError())
	}
}

func TestTasks_MoveAcrossColumns(t *testing.T) {
	b := testutil.StartBackend(t)
	client, _ := signIn(t, b, "ada@example.com")
	logger := testutil.Quiet()
	columns := slice.NewColumns(client, logger)
	tasks := slice.NewTasks(client, logger)
	ctx := context.Background()

	todo, _ := columns.Create(ctx, domain.CreateColumnInput{Title: "Todo"})
	done, _ := columns.Create(ctx, domain.CreateColumnInput{Title: "Done"})
	a, err := tasks.Create(ctx, domain.CreateTaskInput{ColumnID: todo.ID, Title: "a"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	_, _ = tasks.Create(ctx, domain.CreateTaskInput{ColumnID: todo.ID, Title: "b"})

	if _, err := tasks.Move(ctx, a.ID, domain.MoveTaskInput{ColumnID: done.ID, Position: 0}); err != nil {
		t.Fatalf("move: %v", err)
	}

	titles := func(col string) []string {
		var out []string
		for _, task := range tasks.InColumn(col) {
			out = append(out, task.Title)
		}
		return out
	}
	if got := titles(todo.ID); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("todo = %v", got)
	}
	if got := titles(done.ID); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("done = %v", got)
	}
	if rest := tasks.InColumn(todo.ID); len(rest) == 1 && rest[0].Position != 0 {
		t.Errorf("sibling position = %d, want 0 after refetch", rest[0].Position)
	}
	if got := columns.Ordered(); len(got) != 2 || got[0].ID != todo.ID {
		t.Errorf("ordered columns = %+v", got)
	}
}

func TestTasks_MoveToUnknownColumnRollsBack(t *testing.T) {
	b := testutil.StartBackend(t)
	client, _ := signIn(t, b, "ada@example.com")
	logger := testutil.Quiet()
	columns := slice.NewColumns(client, logger)
	tasks := slice.NewTasks(client, logger)
	ctx := context.Background()

	todo, _ := columns.Create(ctx, domain.CreateColumnInput{Title: "Todo"})
	a, _ := tasks.Create(ctx, domain.CreateTaskInput{ColumnID: todo.ID, Title: "a"})

	_, err := tasks.Move(ctx, a.ID, domain.MoveTaskInput{ColumnID: "missing", Position: 0})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
	if cached, _ := tasks.Get(a.ID); cached.ColumnID != todo.ID {
		t.Errorf("column = %q, want rollback to %q", cached.ColumnID, todo.ID)
	}
}

func TestComments_ConfirmedCreateAndFetch(t *testing.T) {
	b := testutil.StartBackend(t)
	client, _ := signIn(t, b, "ada@example.com")
	logger := testutil.Quiet()
	columns := slice.NewColumns(client, logger)
	tasks := slice.NewTasks(client, logger)
	comments := slice.NewComments(client, logger)
	ctx := context.Background()

	col, _ := columns.Create(ctx, domain.CreateColumnInput{Title: "Todo"})
	task, _ := tasks.Create(ctx, domain.CreateTaskInput{ColumnID: col.ID, Title: "a"})

	c, err := comments.Create(ctx, domain.CreateCommentInput{TaskID: task.ID, Content: "first"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if c.AuthorEmail != "ada@example.com" {
		t.Errorf("author = %q", c.AuthorEmail)
	}

	comments.Reset()
	if err := comments.FetchForTask(ctx, task.ID); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if list := comments.List(); len(list) != 1 || list[0].ID != c.ID {
		t.Errorf("comments = %+v", list)
	}

	if err := comments.Remove(ctx, c.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := comments.Get(c.ID); ok {
		t.Error("comment still cached after confirmed removal")
	}
}

func TestInvitations_AcceptRefreshesTeamsAndNotifications(t *testing.T) {
	b := testutil.StartBackend(t)
	ownerClient, _ := signIn(t, b, "owner@example.com")
	guestClient, _ := signIn(t, b, "guest@example.com")
	logger := testutil.Quiet()
	ctx := context.Background()

	ownerTeams := slice.NewTeams(ownerClient, logger)
	team, err := ownerTeams.Create(ctx, domain.CreateTeamInput{Name: "Core"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	inv, err := ownerTeams.Invite(ctx, team.ID, domain.InviteInput{Email: "guest@example.com"})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}

	notifications := slice.NewNotifications(guestClient, logger)
	teams := slice.NewTeams(guestClient, logger)
	invitations := slice.NewInvitations(guestClient, notifications, teams, logger)

	if err := notifications.FetchAll(ctx); err != nil {
		t.Fatalf("fetch notifications: %v", err)
	}
	if notifications.Unread() != 1 {
		t.Fatalf("unread = %d, want 1", notifications.Unread())
	}

	msg, err := invitations.Accept(ctx, inv.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if msg != "Invitation accepted" {
		t.Errorf("message = %q", msg)
	}
	if notifications.Unread() != 0 {
		t.Errorf("unread = %d after accepting", notifications.Unread())
	}
	if _, ok := teams.Get(team.ID); !ok {
		t.Error("accepted team missing from the team cache")
	}

	if _, err := invitations.Decline(ctx, inv.ID); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("answering twice: want Validation, got %v", err)
	}
}

func TestTeams_DuplicateNameIsUnknown(t *testing.T) {
	b := testutil.StartBackend(t)
	client, _ := signIn(t, b, "owner@example.com")
	teams := slice.NewTeams(client, testutil.Quiet())
	ctx := context.Background()

	if _, err := teams.Create(ctx, domain.CreateTeamInput{Name: "Core"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := teams.Create(ctx, domain.CreateTeamInput{Name: "Core"})
	if apperr.KindOf(err) != apperr.KindUnknown {
		t.Fatalf("kind = %s, want unknown", apperr.KindOf(err))
	}
	if len(teams.List()) != 1 {
		t.Errorf("teams cached = %d, want 1", len(teams.List()))
	}
}

func TestAdmin_RequiresAdminRole(t *testing.T) {
	b := testutil.StartBackend(t)
	adminClient, _ := signIn(t, b, testutil.AdminEmail)
	userClient, user := signIn(t, b, "ada@example.com")
	logger := testutil.Quiet()
	ctx := context.Background()

	denied := slice.NewAdminUsers(userClient, logger)
	if err := denied.FetchAll(ctx); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("non-admin fetch: want Unauthorized, got %v", err)
	}
	if !errors.Is(denied.LastError(), apperr.ErrUnauthorized) {
		t.Errorf("LastError = %v", denied.LastError())
	}

	users := slice.NewAdminUsers(adminClient, logger)
	if err := users.FetchAll(ctx); err != nil {
		t.Fatalf("admin fetch: %v", err)
	}
	if len(users.List()) != 2 {
		t.Errorf("users = %d, want 2", len(users.List()))
	}
	promoted, err := users.SetRole(ctx, user.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if promoted.Role != domain.RoleAdmin {
		t.Errorf("role = %s", promoted.Role)
	}
	if cached, _ := users.Get(user.ID); cached.Role != domain.RoleAdmin {
		t.Errorf("cached role = %s", cached.Role)
	}
}
