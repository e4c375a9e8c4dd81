package domain

import (
	"errors"
	"time"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrColumnNotEmpty  = errors.New("column still has tasks")
	ErrCommentNotFound = errors.New("comment not found")
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

type Column struct {
	ID       string `json:"id"`
	OwnerID  string `json:"ownerId"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

func (c Column) Key() string { return c.ID }

type CreateColumnInput struct {
	Title string `json:"title" validate:"required,max=100"`
}

type UpdateColumnInput struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
}

type Task struct {
	ID          string     `json:"id"`
	ColumnID    string     `json:"columnId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Position    int        `json:"position"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (t Task) Key() string { return t.ID }

type CreateTaskInput struct {
	ColumnID    string     `json:"columnId"    validate:"required"`
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Priority    Priority   `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type UpdateTaskInput struct {
	Title       *string    `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Priority    *Priority  `json:"priority,omitempty"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// MoveTaskInput places a task at Position (0-based) inside ColumnID.
type MoveTaskInput struct {
	ColumnID string `json:"columnId" validate:"required"`
	Position int    `json:"position" validate:"min=0"`
}

type Comment struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	AuthorID    string    `json:"authorId"`
	AuthorEmail string    `json:"authorEmail"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (c Comment) Key() string { return c.ID }

type CreateCommentInput struct {
	TaskID  string `json:"taskId"  validate:"required"`
	Content string `json:"content" validate:"required,max=2000"`
}
