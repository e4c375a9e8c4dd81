// Package memory keeps the reference backend's records in process memory.
// It backs cmd/devserver and the end-to-end tests; nothing survives a
// restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

// Store holds every table behind one lock. The typed views returned by its
// accessors implement the repository interfaces.
type Store struct {
	mu sync.RWMutex

	accounts map[string]domain.Account
	emails   map[string]string
	revoked  map[string]time.Time

	focus    map[string]domain.FocusSession
	columns  map[string]domain.Column
	tasks    map[string]domain.Task
	comments map[string]domain.Comment

	teams         map[string]domain.Team
	invitations   map[string]domain.Invitation
	notifications map[string]domain.Notification
}

func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]domain.Account),
		emails:        make(map[string]string),
		revoked:       make(map[string]time.Time),
		focus:         make(map[string]domain.FocusSession),
		columns:       make(map[string]domain.Column),
		tasks:         make(map[string]domain.Task),
		comments:      make(map[string]domain.Comment),
		teams:         make(map[string]domain.Team),
		invitations:   make(map[string]domain.Invitation),
		notifications: make(map[string]domain.Notification),
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s} }
func (s *Store) Revocations() *RevocationRepository     { return &RevocationRepository{s} }
func (s *Store) Focus() *FocusRepository                { return &FocusRepository{s} }
func (s *Store) Columns() *ColumnRepository             { return &ColumnRepository{s} }
func (s *Store) Tasks() *TaskRepository                 { return &TaskRepository{s} }
func (s *Store) Comments() *CommentRepository           { return &CommentRepository{s} }
func (s *Store) Teams() *TeamRepository                 { return &TeamRepository{s} }
func (s *Store) Invitations() *InvitationRepository     { return &InvitationRepository{s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s} }

// Ping implements health.Pinger.
func (s *Store) Ping(context.Context) error { return nil }
