package repository

import (
	"context"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

type ColumnRepository interface {
	Create(ctx context.Context, c *domain.Column) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Column, error)
	FindByID(ctx context.Context, ownerID, id string) (*domain.Column, error)
	Update(ctx context.Context, c *domain.Column) error
	Delete(ctx context.Context, ownerID, id string) error
}

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	// ListByColumns returns the tasks of the given columns ordered by
	// column then position.
	ListByColumns(ctx context.Context, columnIDs []string) ([]domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// Save writes every task in one step, used for reorders.
	Save(ctx context.Context, tasks ...domain.Task) error
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
}
