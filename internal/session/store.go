// Package session owns the client's authentication state: the access
// token, the signed-in identity and the login state machine
//
//	idle → loading → succeeded | failed | mfa_required
//	mfa_required → verified | failed
//	any → idle (logout)
//
// Only the Store mutates the token; everything else reads it through Token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/authtoken"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/metrics"
	"github.com/ErlanBelekov/focusboard/internal/repository"
)

type Status string

const (
	StatusIdle        Status = "idle"
	StatusLoading     Status = "loading"
	StatusSucceeded   Status = "succeeded"
	StatusFailed      Status = "failed"
	StatusMFARequired Status = "mfa_required"
	StatusVerified    Status = "verified"
)

var (
	// ErrSuperseded is returned by an auth operation whose response arrived
	// after a newer auth operation or a logout was issued. Its result was
	// not applied.
	ErrSuperseded = errors.New("superseded by a newer session operation")
	// ErrNoChallenge means a verification code was submitted while no
	// two-factor challenge is pending.
	ErrNoChallenge = errors.New("no two-factor challenge is pending")
	// ErrAlreadyAuthenticated rejects a login while a session is active.
	ErrAlreadyAuthenticated = errors.New("already signed in")
)

// AuthAPI is the subset of the API client the store needs.
// Defined here (point of use) so tests can inject a fake.
type AuthAPI interface {
	Authenticate(ctx context.Context, in domain.Credentials) (*domain.AuthResponse, error)
	Register(ctx context.Context, in domain.Registration) (*domain.AuthResponse, error)
	Verify(ctx context.Context, in domain.Verification) (*domain.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

// Snapshot is a copy of the session at one instant.
type Snapshot struct {
	Token  string
	User   *domain.User
	Status Status
	Error  string
	// Email is the account a pending two-factor challenge belongs to.
	Email string
	// SecretImageURI is the authenticator provisioning image returned by an
	// MFA-enabled registration.
	SecretImageURI string
}

// Authenticated reports whether the snapshot grants access to protected views.
func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil && (s.Status == StatusSucceeded || s.Status == StatusVerified)
}

func (s Snapshot) clone() Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

type Store struct {
	api    AuthAPI
	tokens repository.TokenStore
	logger *slog.Logger

	// persistMu serializes every write to durable storage together with the
	// state change it belongs to, so storage always follows the latest state.
	persistMu sync.Mutex

	mu      sync.Mutex
	state   Snapshot
	gen     uint64
	onReset []func()
}

// New creates the store and hydrates it from tokens. A persisted token that
// cannot be decoded is discarded.
func New(ctx context.Context, api AuthAPI, tokens repository.TokenStore, logger *slog.Logger) (*Store, error) {
	s := &Store{
		api:    api,
		tokens: tokens,
		logger: logger.With("component", "session"),
		state:  Snapshot{Status: StatusIdle},
	}

	raw, err := tokens.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load persisted token: %w", err)
	}
	if raw == "" {
		return s, nil
	}

	claims, err := authtoken.Decode(raw)
	if err != nil {
		s.logger.Warn("discarding undecodable persisted token", "error", err)
		if err := tokens.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear persisted token: %w", err)
		}
		return s, nil
	}
	s.state = Snapshot{Token: raw, User: claims.User(), Status: StatusSucceeded}
	s.logger.Info("session restored", "user_id", claims.Subject)
	return s, nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Token implements apiclient.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// OnReset registers fn to run after every logout, forced or explicit.
func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReset = append(s.onReset, fn)
}

// setLocked replaces the state. Caller holds s.mu.
func (s *Store) setLocked(next Snapshot) {
	if next.Status != s.state.Status {
		metrics.SessionTransitionsTotal.WithLabelValues(string(next.Status)).Inc()
		s.logger.Debug("session transition", "from", s.state.Status, "to", next.Status)
	}
	s.state = next
}

// active reports whether a live session blocks a new login. An expired
// token no longer counts, even before the watchdog has cleared it.
func (s *Store) active() bool {
	snap := s.Snapshot()
	if !snap.Authenticated() {
		return false
	}
	expired, _ := authtoken.Expired(snap.Token, time.Now())
	return !expired
}

// begin moves to loading and returns the generation that owns the result.
func (s *Store) begin(mutate func(*Snapshot)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	next := s.state
	next.Status = StatusLoading
	next.Error = ""
	if mutate != nil {
		mutate(&next)
	}
	s.setLocked(next)
	return s.gen
}

// finish applies next if gen is still current and persists token when
// non-empty.
func (s *Store) finish(ctx context.Context, gen uint64, next Snapshot) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("discarding stale session response", "gen", gen)
		return ErrSuperseded
	}
	s.setLocked(next)
	s.mu.Unlock()

	if next.Token == "" {
		return nil
	}
	if err := s.tokens.Save(ctx, next.Token); err != nil {
		// The in-memory session stays valid; it just won't survive a restart.
		s.logger.Error("persist token", "error", err)
	}
	return nil
}

// SubmitCredentials logs in with email and password. A backend rejection of
// MFA_REQUIRED moves the session to mfa_required instead of failed.
func (s *Store) SubmitCredentials(ctx context.Context, email, password string) error {
	in := domain.Credentials{Email: email, Password: password}
	if err := apperr.Validate(in); err != nil {
		return err
	}
	if s.active() {
		return ErrAlreadyAuthenticated
	}

	gen := s.begin(func(next *Snapshot) {
		next.Token = ""
		next.User = nil
		next.Email = ""
		next.SecretImageURI = ""
	})
	res, err := s.api.Authenticate(ctx, in)
	if err != nil {
		msg := apperr.MessageOf(err)
		if msg == domain.MFARequiredSignal {
			return s.finish(ctx, gen, Snapshot{Status: StatusMFARequired, Email: email})
		}
		if ferr := s.finish(ctx, gen, Snapshot{Status: StatusFailed, Error: msg}); ferr != nil {
			return ferr
		}
		return apperr.Classify("authenticate", err)
	}

	next, err := authenticated(res, StatusSucceeded)
	if err != nil {
		return s.fail(ctx, gen, err)
	}
	return s.finish(ctx, gen, next)
}

// SubmitRegistration creates an account. With two-factor enabled the
// session waits in mfa_required holding the provisioning image.
func (s *Store) SubmitRegistration(ctx context.Context, in domain.Registration) error {
	if err := apperr.Validate(in); err != nil {
		return err
	}
	if s.active() {
		return ErrAlreadyAuthenticated
	}

	gen := s.begin(func(next *Snapshot) {
		next.Token = ""
		next.User = nil
		next.Email = ""
		next.SecretImageURI = ""
	})
	res, err := s.api.Register(ctx, in)
	if err != nil {
		if ferr := s.finish(ctx, gen, Snapshot{Status: StatusFailed, Error: apperr.MessageOf(err)}); ferr != nil {
			return ferr
		}
		return apperr.Classify("register", err)
	}

	if res.MFAEnabled {
		return s.finish(ctx, gen, Snapshot{
			Status:         StatusMFARequired,
			Email:          in.Email,
			SecretImageURI: res.SecretImageURI,
		})
	}

	next, err := authenticated(res, StatusSucceeded)
	if err != nil {
		return s.fail(ctx, gen, err)
	}
	return s.finish(ctx, gen, next)
}

// SubmitVerificationCode answers the pending two-factor challenge.
func (s *Store) SubmitVerificationCode(ctx context.Context, code string) error {
	snap := s.Snapshot()
	if snap.Email == "" || (snap.Status != StatusMFARequired && snap.Status != StatusFailed && snap.Status != StatusLoading) {
		return ErrNoChallenge
	}
	in := domain.Verification{Email: snap.Email, Code: code}
	if err := apperr.Validate(in); err != nil {
		return err
	}

	gen := s.begin(nil)
	res, err := s.api.Verify(ctx, in)
	if err != nil {
		// The challenge stays pending so the code can be re-entered.
		failed := Snapshot{Status: StatusFailed, Error: apperr.MessageOf(err), Email: snap.Email, SecretImageURI: snap.SecretImageURI}
		if ferr := s.finish(ctx, gen, failed); ferr != nil {
			return ferr
		}
		return apperr.Classify("verify", err)
	}

	next, err := authenticated(res, StatusVerified)
	if err != nil {
		return s.fail(ctx, gen, err)
	}
	return s.finish(ctx, gen, next)
}

func (s *Store) fail(ctx context.Context, gen uint64, err error) error {
	if ferr := s.finish(ctx, gen, Snapshot{Status: StatusFailed, Error: err.Error()}); ferr != nil {
		return ferr
	}
	return apperr.Classify("", err)
}

// authenticated builds the post-login snapshot. When the response carries
// no user the identity is read from the token claims.
func authenticated(res *domain.AuthResponse, status Status) (Snapshot, error) {
	if res.AccessToken == "" {
		return Snapshot{}, apperr.New(apperr.KindUnknown, "authentication response carried no access token")
	}
	user := res.User
	if user == nil {
		claims, err := authtoken.Decode(res.AccessToken)
		if err != nil {
			return Snapshot{}, apperr.New(apperr.KindUnknown, "access token is malformed")
		}
		user = claims.User()
	} else {
		u := *user
		user = &u
	}
	return Snapshot{Token: res.AccessToken, User: user, Status: status}, nil
}

// Logout resets the session to its pristine state, clears the persisted
// token and tells the backend to revoke the old token. The local reset
// happens regardless of whether the backend call succeeds.
func (s *Store) Logout(ctx context.Context) error {
	old := s.reset(ctx, "logout")
	if old == "" || s.api == nil {
		return nil
	}
	if err := s.api.Logout(ctx, old); err != nil {
		s.logger.Warn("backend logout failed; local session cleared anyway", "error", err)
	}
	return nil
}

// ForceLogout resets the session without contacting the backend.
func (s *Store) ForceLogout(ctx context.Context, reason string) {
	s.reset(ctx, reason)
}

// reset returns the token that was active before the reset.
func (s *Store) reset(ctx context.Context, reason string) string {
	s.persistMu.Lock()
	s.mu.Lock()
	old := s.state.Token
	s.gen++
	s.setLocked(Snapshot{Status: StatusIdle})
	hooks := append([]func(){}, s.onReset...)
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Error("clear persisted token", "error", err)
	}
	s.persistMu.Unlock()

	s.logger.Info("session cleared", "reason", reason)
	for _, fn := range hooks {
		fn()
	}
	return old
}

// ClearToken drops only the token, in memory and in storage, leaving
// status, user and every other field as they were.
func (s *Store) ClearToken(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.state.Token = ""
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted token: %w", err)
	}
	return nil
}

// Sync reconciles the session with durable storage after another process
// changed it: a cleared token logs this session out, a replaced token is
// adopted.
func (s *Store) Sync(ctx context.Context) error {
	raw, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load persisted token: %w", err)
	}

	s.mu.Lock()
	current := s.state.Token
	s.mu.Unlock()

	switch {
	case raw == current:
		return nil
	case raw == "":
		s.reset(ctx, "token cleared by another process")
		return nil
	}

	claims, err := authtoken.Decode(raw)
	if err != nil {
		s.reset(ctx, "undecodable token written by another process")
		return nil
	}

	s.persistMu.Lock()
	s.mu.Lock()
	if s.state.Token != current {
		// A local auth operation finished while storage was being read.
		s.mu.Unlock()
		s.persistMu.Unlock()
		return nil
	}
	s.gen++
	s.setLocked(Snapshot{Token: raw, User: claims.User(), Status: StatusSucceeded})
	s.mu.Unlock()
	s.persistMu.Unlock()
	s.logger.Info("adopted token written by another process", "user_id", claims.Subject)
	return nil
}
