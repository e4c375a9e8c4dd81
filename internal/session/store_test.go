package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/authtoken"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/infrastructure/kv"
	"github.com/ErlanBelekov/focusboard/internal/session"
)

// ---- fakes ----

type fakeAuthAPI struct {
	authenticate func(ctx context.Context, in domain.Credentials) (*domain.AuthResponse, error)
	register     func(ctx context.Context, in domain.Registration) (*domain.AuthResponse, error)
	verify       func(ctx context.Context, in domain.Verification) (*domain.AuthResponse, error)
	logout       func(ctx context.Context, token string) error
}

func (f *fakeAuthAPI) Authenticate(ctx context.Context, in domain.Credentials) (*domain.AuthResponse, error) {
	return f.authenticate(ctx, in)
}

func (f *fakeAuthAPI) Register(ctx context.Context, in domain.Registration) (*domain.AuthResponse, error) {
	return f.register(ctx, in)
}

func (f *fakeAuthAPI) Verify(ctx context.Context, in domain.Verification) (*domain.AuthResponse, error) {
	return f.verify(ctx, in)
}

func (f *fakeAuthAPI) Logout(ctx context.Context, token string) error {
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx, token)
}

// ---- helpers ----

const testKey = "session-test-secret-of-32-chars!!"

var testUser = &domain.User{ID: "user-1", Email: "ada@example.com", Role: domain.RoleUser}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signToken(t *testing.T, u *domain.User, ttl time.Duration) string {
	t.Helper()
	raw, err := authtoken.Sign([]byte(testKey), u, "jti", time.Now(), ttl)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func newStore(t *testing.T, api *fakeAuthAPI, tokens *kv.MemoryStore) *session.Store {
	t.Helper()
	s, err := session.New(context.Background(), api, tokens, quietLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func loginOK(t *testing.T, token string) *fakeAuthAPI {
	return &fakeAuthAPI{
		authenticate: func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
			return &domain.AuthResponse{AccessToken: token, User: testUser}, nil
		},
	}
}

func persisted(t *testing.T, tokens *kv.MemoryStore) string {
	t.Helper()
	raw, _ := tokens.Load(context.Background())
	return raw
}

// ---- SubmitCredentials ----

func TestSubmitCredentials_Success_PersistsToken(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	tokens := kv.NewMemoryStore("")
	s := newStore(t, loginOK(t, token), tokens)

	if err := s.SubmitCredentials(context.Background(), testUser.Email, "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := s.Snapshot()
	if snap.Status != session.StatusSucceeded {
		t.Errorf("status = %s, want succeeded", snap.Status)
	}
	if snap.Token != token || snap.User == nil || snap.User.ID != testUser.ID {
		t.Errorf("snapshot = %+v", snap)
	}
	if persisted(t, tokens) != token {
		t.Error("token was not persisted")
	}
}

func TestSubmitCredentials_MFARequired(t *testing.T) {
	api := &fakeAuthAPI{
		authenticate: func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
			return nil, apperr.New(apperr.KindUnauthorized, domain.MFARequiredSignal)
		},
	}
	tokens := kv.NewMemoryStore("")
	s := newStore(t, api, tokens)

	if err := s.SubmitCredentials(context.Background(), testUser.Email, "pw"); err != nil {
		t.Fatalf("MFA branch must not surface an error, got %v", err)
	}

	snap := s.Snapshot()
	if snap.Status != session.StatusMFARequired {
		t.Errorf("status = %s, want mfa_required", snap.Status)
	}
	if snap.Token != "" {
		t.Errorf("token must be absent, got %q", snap.Token)
	}
	if snap.Error != "" {
		t.Errorf("error must be empty, got %q", snap.Error)
	}
	if snap.Email != testUser.Email {
		t.Errorf("email = %q, want the challenged account", snap.Email)
	}
	if persisted(t, tokens) != "" {
		t.Error("nothing may be persisted before verification")
	}
}

func TestSubmitCredentials_OtherRejection_StoredVerbatim(t *testing.T) {
	const msg = "Bad credentials: account locked (3/3)"
	api := &fakeAuthAPI{
		authenticate: func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
			return nil, apperr.New(apperr.KindUnauthorized, msg)
		},
	}
	s := newStore(t, api, kv.NewMemoryStore(""))

	err := s.SubmitCredentials(context.Background(), testUser.Email, "pw")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("want ErrUnauthorized, got %v", err)
	}

	snap := s.Snapshot()
	if snap.Status != session.StatusFailed {
		t.Errorf("status = %s, want failed", snap.Status)
	}
	if snap.Error != msg {
		t.Errorf("error = %q, want %q", snap.Error, msg)
	}
}

func TestSubmitCredentials_InvalidInput_NoCall(t *testing.T) {
	called := false
	api := &fakeAuthAPI{
		authenticate: func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
			called = true
			return nil, nil
		},
	}
	s := newStore(t, api, kv.NewMemoryStore(""))

	err := s.SubmitCredentials(context.Background(), "not-an-email", "")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("want ErrValidation, got %v", err)
	}
	if called {
		t.Error("backend must not be called with invalid input")
	}
	if s.Snapshot().Status != session.StatusIdle {
		t.Errorf("status = %s, want idle", s.Snapshot().Status)
	}
}

func TestSubmitCredentials_AlreadyAuthenticated(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	s := newStore(t, loginOK(t, token), kv.NewMemoryStore(token))

	if err := s.SubmitCredentials(context.Background(), testUser.Email, "pw"); !errors.Is(err, session.ErrAlreadyAuthenticated) {
		t.Errorf("want ErrAlreadyAuthenticated, got %v", err)
	}
}

func TestSubmitCredentials_ExpiredSessionDoesNotBlock(t *testing.T) {
	expired := signToken(t, testUser, -time.Minute)
	fresh := signToken(t, testUser, time.Hour)
	tokens := kv.NewMemoryStore(expired)
	s := newStore(t, loginOK(t, fresh), tokens)

	if err := s.SubmitCredentials(context.Background(), testUser.Email, "pw"); err != nil {
		t.Fatalf("login over an expired session: %v", err)
	}
	if snap := s.Snapshot(); snap.Token != fresh || snap.Status != session.StatusSucceeded {
		t.Errorf("snapshot = %+v", snap)
	}
	if persisted(t, tokens) != fresh {
		t.Error("fresh token was not persisted")
	}
}

func TestSubmitRegistration_ExpiredSessionDoesNotBlock(t *testing.T) {
	fresh := signToken(t, testUser, time.Hour)
	api := &fakeAuthAPI{
		register: func(context.Context, domain.Registration) (*domain.AuthResponse, error) {
			return &domain.AuthResponse{AccessToken: fresh, User: testUser}, nil
		},
	}
	s := newStore(t, api, kv.NewMemoryStore(signToken(t, testUser, -time.Minute)))

	in := domain.Registration{FirstName: "Ada", LastName: "Lovelace", Email: testUser.Email, Password: "password-123"}
	if err := s.SubmitRegistration(context.Background(), in); err != nil {
		t.Fatalf("register over an expired session: %v", err)
	}
	if s.Snapshot().Token != fresh {
		t.Error("fresh token was not applied")
	}
}

func TestSubmitCredentials_StaleResponseAfterLogoutDiscarded(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	release := make(chan struct{})
	api := &fakeAuthAPI{
		authenticate: func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
			<-release
			return &domain.AuthResponse{AccessToken: token, User: testUser}, nil
		},
	}
	tokens := kv.NewMemoryStore("")
	s := newStore(t, api, tokens)

	done := make(chan error, 1)
	go func() { done <- s.SubmitCredentials(context.Background(), testUser.Email, "pw") }()

	waitForStatus(t, s, session.StatusLoading)
	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, session.ErrSuperseded) {
		t.Errorf("want ErrSuperseded, got %v", err)
	}
	if snap := s.Snapshot(); !reflect.DeepEqual(snap, session.Snapshot{Status: session.StatusIdle}) {
		t.Errorf("session = %+v, want pristine", snap)
	}
	if persisted(t, tokens) != "" {
		t.Error("stale token must not be persisted")
	}
}

func TestSubmitCredentials_NewestRequestWins(t *testing.T) {
	oldToken := signToken(t, &domain.User{ID: "old", Email: "old@example.com"}, time.Hour)
	newToken := signToken(t, testUser, time.Hour)
	releaseOld := make(chan struct{})
	api := &fakeAuthAPI{
		authenticate: func(_ context.Context, in domain.Credentials) (*domain.AuthResponse, error) {
			if in.Email == "old@example.com" {
				<-releaseOld
				return &domain.AuthResponse{AccessToken: oldToken, User: &domain.User{ID: "old"}}, nil
			}
			return &domain.AuthResponse{AccessToken: newToken, User: testUser}, nil
		},
	}
	s := newStore(t, api, kv.NewMemoryStore(""))

	first := make(chan error, 1)
	go func() { first <- s.SubmitCredentials(context.Background(), "old@example.com", "pw") }()
	waitForStatus(t, s, session.StatusLoading)

	if err := s.SubmitCredentials(context.Background(), testUser.Email, "pw"); err != nil {
		t.Fatalf("second login: %v", err)
	}
	close(releaseOld)

	if err := <-first; !errors.Is(err, session.ErrSuperseded) {
		t.Errorf("first login: want ErrSuperseded, got %v", err)
	}
	if s.Token() != newToken {
		t.Error("the later request's token must win")
	}
}

// ---- SubmitRegistration / SubmitVerificationCode ----

func TestRegistration_MFA_ThenVerify(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	var verifiedWith domain.Verification
	api := &fakeAuthAPI{
		register: func(context.Context, domain.Registration) (*domain.AuthResponse, error) {
			return &domain.AuthResponse{MFAEnabled: true, SecretImageURI: "data:image/png;base64,AAA"}, nil
		},
		verify: func(_ context.Context, in domain.Verification) (*domain.AuthResponse, error) {
			verifiedWith = in
			return &domain.AuthResponse{AccessToken: token}, nil
		},
	}
	tokens := kv.NewMemoryStore("")
	s := newStore(t, api, tokens)

	reg := domain.Registration{FirstName: "Ada", LastName: "L", Email: testUser.Email, Password: "password1", MFAEnabled: true}
	if err := s.SubmitRegistration(context.Background(), reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	snap := s.Snapshot()
	if snap.Status != session.StatusMFARequired || snap.SecretImageURI == "" || snap.Email != reg.Email || snap.Token != "" {
		t.Fatalf("after register = %+v", snap)
	}

	if err := s.SubmitVerificationCode(context.Background(), "123456"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verifiedWith.Email != reg.Email || verifiedWith.Code != "123456" {
		t.Errorf("verify called with %+v", verifiedWith)
	}

	snap = s.Snapshot()
	if snap.Status != session.StatusVerified {
		t.Errorf("status = %s, want verified", snap.Status)
	}
	if snap.Token != token || snap.User == nil || snap.User.ID != testUser.ID {
		t.Errorf("snapshot = %+v; user must come from token claims", snap)
	}
	if persisted(t, tokens) != token {
		t.Error("verified token was not persisted")
	}
}

func TestRegistration_WithoutMFA_Succeeds(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	api := &fakeAuthAPI{
		register: func(context.Context, domain.Registration) (*domain.AuthResponse, error) {
			return &domain.AuthResponse{AccessToken: token, User: testUser}, nil
		},
	}
	s := newStore(t, api, kv.NewMemoryStore(""))

	reg := domain.Registration{FirstName: "Ada", LastName: "L", Email: testUser.Email, Password: "password1"}
	if err := s.SubmitRegistration(context.Background(), reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if snap := s.Snapshot(); snap.Status != session.StatusSucceeded || snap.Token != token {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestVerify_Rejected_KeepsChallenge(t *testing.T) {
	api := &fakeAuthAPI{
		authenticate: func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
			return nil, apperr.New(apperr.KindUnauthorized, domain.MFARequiredSignal)
		},
		verify: func(context.Context, domain.Verification) (*domain.AuthResponse, error) {
			return nil, apperr.New(apperr.KindUnauthorized, "Invalid verification code")
		},
	}
	s := newStore(t, api, kv.NewMemoryStore(""))
	_ = s.SubmitCredentials(context.Background(), testUser.Email, "pw")

	err := s.SubmitVerificationCode(context.Background(), "000000")
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("want ErrUnauthorized, got %v", err)
	}
	snap := s.Snapshot()
	if snap.Status != session.StatusFailed || snap.Error != "Invalid verification code" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Email != testUser.Email {
		t.Error("challenge email must survive a wrong code")
	}
}

func TestVerify_NoChallenge(t *testing.T) {
	s := newStore(t, &fakeAuthAPI{}, kv.NewMemoryStore(""))

	if err := s.SubmitVerificationCode(context.Background(), "123456"); !errors.Is(err, session.ErrNoChallenge) {
		t.Errorf("want ErrNoChallenge, got %v", err)
	}
}

// ---- Logout / ClearToken ----

func TestLogout_RestoresPristineSession(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	var revoked string
	api := loginOK(t, token)
	api.logout = func(_ context.Context, tok string) error {
		revoked = tok
		return errors.New("backend down")
	}
	tokens := kv.NewMemoryStore("")
	s := newStore(t, api, tokens)
	resets := 0
	s.OnReset(func() { resets++ })

	if err := s.SubmitCredentials(context.Background(), testUser.Email, "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if snap := s.Snapshot(); !reflect.DeepEqual(snap, session.Snapshot{Status: session.StatusIdle}) {
		t.Errorf("session = %+v, want pristine", snap)
	}
	if persisted(t, tokens) != "" {
		t.Error("persisted token must be cleared")
	}
	if revoked != token {
		t.Errorf("backend logout got %q, want the old token", revoked)
	}
	if resets != 1 {
		t.Errorf("reset hooks ran %d times, want 1", resets)
	}
}

func TestClearToken_ClearsOnlyToken(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	tokens := kv.NewMemoryStore("")
	s := newStore(t, loginOK(t, token), tokens)
	if err := s.SubmitCredentials(context.Background(), testUser.Email, "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	before := s.Snapshot()

	if err := s.ClearToken(context.Background()); err != nil {
		t.Fatalf("clear token: %v", err)
	}

	after := s.Snapshot()
	if after.Token != "" {
		t.Errorf("token = %q, want empty", after.Token)
	}
	before.Token = ""
	if !reflect.DeepEqual(after, before) {
		t.Errorf("fields other than token changed:\n before %+v\n after  %+v", before, after)
	}
	if persisted(t, tokens) != "" {
		t.Error("persisted token must be cleared")
	}
}

// ---- hydration / sync ----

func TestNew_HydratesFromStorage(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	s := newStore(t, &fakeAuthAPI{}, kv.NewMemoryStore(token))

	snap := s.Snapshot()
	if snap.Status != session.StatusSucceeded || snap.Token != token || snap.User.Email != testUser.Email {
		t.Errorf("hydrated = %+v", snap)
	}
}

func TestNew_DiscardsMalformedToken(t *testing.T) {
	tokens := kv.NewMemoryStore("garbage")
	s := newStore(t, &fakeAuthAPI{}, tokens)

	if s.Snapshot().Status != session.StatusIdle {
		t.Errorf("status = %s, want idle", s.Snapshot().Status)
	}
	if persisted(t, tokens) != "" {
		t.Error("malformed token must be removed from storage")
	}
}

func TestSync_ExternalClearLogsOut(t *testing.T) {
	token := signToken(t, testUser, time.Hour)
	tokens := kv.NewMemoryStore(token)
	s := newStore(t, &fakeAuthAPI{}, tokens)

	_ = tokens.Clear(context.Background())
	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if s.Snapshot().Status != session.StatusIdle {
		t.Errorf("status = %s, want idle", s.Snapshot().Status)
	}
}

func TestSync_AdoptsExternalToken(t *testing.T) {
	tokens := kv.NewMemoryStore("")
	s := newStore(t, &fakeAuthAPI{}, tokens)

	token := signToken(t, testUser, time.Hour)
	_ = tokens.Save(context.Background(), token)
	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if snap := s.Snapshot(); snap.Token != token || snap.Status != session.StatusSucceeded {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSync_AdoptionSupersedesInFlightLogin(t *testing.T) {
	mine := signToken(t, testUser, time.Hour)
	theirs := signToken(t, &domain.User{ID: "user-2", Email: "grace@example.com", Role: domain.RoleUser}, time.Hour)
	release := make(chan struct{})
	api := &fakeAuthAPI{
		authenticate: func(context.Context, domain.Credentials) (*domain.AuthResponse, error) {
			<-release
			return &domain.AuthResponse{AccessToken: mine, User: testUser}, nil
		},
	}
	tokens := kv.NewMemoryStore("")
	s := newStore(t, api, tokens)

	done := make(chan error, 1)
	go func() { done <- s.SubmitCredentials(context.Background(), testUser.Email, "pw") }()
	waitForStatus(t, s, session.StatusLoading)

	_ = tokens.Save(context.Background(), theirs)
	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	close(release)

	if err := <-done; !errors.Is(err, session.ErrSuperseded) {
		t.Fatalf("login = %v, want ErrSuperseded", err)
	}
	if snap := s.Snapshot(); snap.Token != theirs || snap.User.ID != "user-2" {
		t.Errorf("snapshot = %+v, want adopted token", snap)
	}
	if persisted(t, tokens) != theirs {
		t.Error("superseded login overwrote the adopted token")
	}
}

func waitForStatus(t *testing.T, s *session.Store, want session.Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Snapshot().Status == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("status never reached %s (is %s)", want, s.Snapshot().Status)
}
