package memory

import (
	"context"
	"sort"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/repository"
)

type FocusRepository struct{ s *Store }

func (r *FocusRepository) Create(_ context.Context, f *domain.FocusSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.focus[f.ID] = *f
	return nil
}

func (r *FocusRepository) ListByUser(_ context.Context, userID string) ([]domain.FocusSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.FocusSession
	for _, f := range r.s.focus {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

func (r *FocusRepository) FindByID(_ context.Context, userID, id string) (*domain.FocusSession, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.focus[id]
	if !ok || f.UserID != userID {
		return nil, domain.ErrFocusSessionNotFound
	}
	return &f, nil
}

func (r *FocusRepository) Update(_ context.Context, f *domain.FocusSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.focus[f.ID]; !ok {
		return domain.ErrFocusSessionNotFound
	}
	r.s.focus[f.ID] = *f
	return nil
}

func (r *FocusRepository) Delete(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.focus[id]
	if !ok || f.UserID != userID {
		return domain.ErrFocusSessionNotFound
	}
	delete(r.s.focus, id)
	return nil
}

var _ repository.FocusRepository = (*FocusRepository)(nil)
