package domain

import (
	"errors"
	"time"
)

var (
	ErrTeamNotFound         = errors.New("team not found")
	ErrTeamNameConflict     = errors.New("team with this name already exists")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrInvitationResolved   = errors.New("invitation has already been answered")
	ErrAlreadyMember        = errors.New("user is already a team member")
	ErrNotificationNotFound = errors.New("notification not found")
)

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	MemberIDs []string  `json:"memberIds"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t Team) Key() string { return t.ID }

type CreateTeamInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type InviteInput struct {
	Email string `json:"email" validate:"required,email"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
)

type Invitation struct {
	ID           string           `json:"id"`
	TeamID       string           `json:"teamId"`
	InviterID    string           `json:"inviterId"`
	InviteeEmail string           `json:"inviteeEmail"`
	Status       InvitationStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type NotificationType string

const (
	NotificationInvitation NotificationType = "INVITATION"
	NotificationInfo       NotificationType = "INFO"
)

type Notification struct {
	ID           string           `json:"id"`
	UserID       string           `json:"userId"`
	Type         NotificationType `json:"type"`
	Message      string           `json:"message"`
	InvitationID *string          `json:"invitationId,omitempty"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func (n Notification) Key() string { return n.ID }

// UserSummary is the admin dashboard row for a user.
type UserSummary struct {
	User
	TeamCount    int `json:"teamCount"`
	FocusMinutes int `json:"focusMinutes"`
}

type UpdateUserInput struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty"  validate:"omitempty,min=1,max=100"`
	Role      *Role   `json:"role,omitempty"      validate:"omitempty,oneof=USER ADMIN"`
}

// TeamSummary is the admin dashboard row for a team.
type TeamSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerEmail  string    `json:"ownerEmail"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (t TeamSummary) Key() string { return t.ID }
