package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/google/uuid"
)

type FocusUsecase struct {
	repo repository.FocusRepository
	now  func() time.Time
}

func NewFocusUsecase(repo repository.FocusRepository) *FocusUsecase {
	return &FocusUsecase{repo: repo, now: time.Now}
}

func (u *FocusUsecase) List(ctx context.Context, userID string) ([]domain.FocusSession, error) {
	sessions, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.FocusSession{}
	}
	return sessions, nil
}

func (u *FocusUsecase) Start(ctx context.Context, userID string, in domain.StartFocusInput) (*domain.FocusSession, error) {
	s := &domain.FocusSession{
		ID:            uuid.NewString(),
		UserID:        userID,
		Description:   in.Description,
		TargetMinutes: in.TargetMinutes,
		Status:        domain.FocusInProgress,
		StartedAt:     u.now().UTC(),
	}
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create focus session: %w", err)
	}
	return s, nil
}

// End closes an in-progress session. Without an explicit Completed flag a
// session that reached its target counts as completed, anything shorter as
// cancelled.
func (u *FocusUsecase) End(ctx context.Context, userID, id string, in domain.EndFocusInput) (*domain.FocusSession, error) {
	s, err := u.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s.Status.Terminal() {
		return nil, domain.ErrFocusSessionEnded
	}

	completed := in.ActualMinutes >= s.TargetMinutes
	if in.Completed != nil {
		completed = *in.Completed
	}
	s.ActualMinutes = in.ActualMinutes
	s.Status = domain.FocusCancelled
	if completed {
		s.Status = domain.FocusCompleted
	}
	ended := u.now().UTC()
	s.EndedAt = &ended

	if err := u.repo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("update focus session: %w", err)
	}
	return s, nil
}

func (u *FocusUsecase) Delete(ctx context.Context, userID, id string) error {
	return u.repo.Delete(ctx, userID, id)
}

// TotalMinutes sums the recorded minutes of a user's ended sessions.
func (u *FocusUsecase) TotalMinutes(ctx context.Context, userID string) (int, error) {
	sessions, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list focus sessions: %w", err)
	}
	total := 0
	for _, s := range sessions {
		total += s.ActualMinutes
	}
	return total, nil
}
