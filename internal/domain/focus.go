package domain

import (
	"errors"
	"time"
)

var (
	ErrFocusSessionNotFound = errors.New("focus session not found")
	ErrFocusSessionEnded    = errors.New("focus session has already ended")
)

type FocusStatus string

const (
	FocusInProgress FocusStatus = "IN_PROGRESS"
	FocusCompleted  FocusStatus = "COMPLETED"
	FocusCancelled  FocusStatus = "CANCELLED"
)

// Terminal reports whether no further transitions are possible.
func (s FocusStatus) Terminal() bool {
	return s == FocusCompleted || s == FocusCancelled
}

type FocusSession struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	Description   string      `json:"description"`
	TargetMinutes int         `json:"targetMinutes"`
	ActualMinutes int         `json:"actualMinutes"`
	Status        FocusStatus `json:"status"`
	StartedAt     time.Time   `json:"startedAt"`
	EndedAt       *time.Time  `json:"endedAt,omitempty"`
}

func (f FocusSession) Key() string { return f.ID }

type StartFocusInput struct {
	TargetMinutes int    `json:"targetMinutes" validate:"required,min=1,max=600"`
	Description   string `json:"description"   validate:"max=500"`
}

// EndFocusInput ends a session. A session ended before its target is
// recorded as cancelled unless Completed is set explicitly.
type EndFocusInput struct {
	ActualMinutes int   `json:"actualMinutes" validate:"min=0,max=1440"`
	Completed     *bool `json:"completed,omitempty"`
}
