package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/repository"
)

type UserRepository struct{ s *Store }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(_ context.Context, acct *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := normalizeEmail(acct.Email)
	if _, taken := r.s.emails[key]; taken {
		return domain.ErrEmailTaken
	}
	r.s.accounts[acct.ID] = *acct
	r.s.emails[key] = acct.ID
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[normalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	acct := r.s.accounts[id]
	return &acct, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	acct, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &acct, nil
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.User, 0, len(r.s.accounts))
	for _, acct := range r.s.accounts {
		out = append(out, acct.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepository) Update(_ context.Context, id string, in domain.UpdateUserInput) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acct, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if in.FirstName != nil {
		acct.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		acct.LastName = *in.LastName
	}
	if in.Role != nil {
		acct.Role = *in.Role
	}
	r.s.accounts[id] = acct
	u := acct.User
	return &u, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	acct, ok := r.s.accounts[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.accounts, id)
	delete(r.s.emails, normalizeEmail(acct.Email))
	return nil
}

type RevocationRepository struct{ s *Store }

func (r *RevocationRepository) Revoke(_ context.Context, jti string, until time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	for id, exp := range r.s.revoked {
		if exp.Before(now) {
			delete(r.s.revoked, id)
		}
	}
	r.s.revoked[jti] = until
	return nil
}

func (r *RevocationRepository) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.revoked[jti]
	return ok, nil
}

var (
	_ repository.UserRepository       = (*UserRepository)(nil)
	_ repository.RevocationRepository = (*RevocationRepository)(nil)
)
