package slice

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/resource"
)

type ColumnAPI interface {
	ListColumns(ctx context.Context) ([]domain.Column, error)
	CreateColumn(ctx context.Context, in domain.CreateColumnInput) (domain.Column, error)
	UpdateColumn(ctx context.Context, id string, in domain.UpdateColumnInput) (domain.Column, error)
	DeleteColumn(ctx context.Context, id string) error
}

// Columns are renamed and removed optimistically.
type Columns struct {
	*resource.Slice[domain.Column, domain.CreateColumnInput, domain.UpdateColumnInput]
}

func NewColumns(api ColumnAPI, logger *slog.Logger) *Columns {
	return &Columns{resource.New(
		resource.Backend[domain.Column, domain.CreateColumnInput, domain.UpdateColumnInput]{
			List:   api.ListColumns,
			Create: api.CreateColumn,
			Update: api.UpdateColumn,
			Delete: api.DeleteColumn,
		},
		resource.Options[domain.Column, domain.UpdateColumnInput]{
			Name:       "column",
			Discipline: resource.Optimistic,
			Placement:  resource.Tail,
			Apply: func(c domain.Column, in domain.UpdateColumnInput) domain.Column {
				if in.Title != nil {
					c.Title = *in.Title
				}
				return c
			},
		},
		logger,
	)}
}

func (c *Columns) Rename(ctx context.Context, id, title string) (domain.Column, error) {
	return c.Update(ctx, id, domain.UpdateColumnInput{Title: &title})
}

// Ordered returns the columns by board position.
func (c *Columns) Ordered() []domain.Column {
	cols := c.List()
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })
	return cols
}

type TaskAPI interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, in domain.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, in domain.UpdateTaskInput) (domain.Task, error)
	MoveTask(ctx context.Context, id string, in domain.MoveTaskInput) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Tasks are edited and moved optimistically.
type Tasks struct {
	*resource.Slice[domain.Task, domain.CreateTaskInput, domain.UpdateTaskInput]
	api TaskAPI
}

func NewTasks(api TaskAPI, logger *slog.Logger) *Tasks {
	return &Tasks{
		Slice: resource.New(
			resource.Backend[domain.Task, domain.CreateTaskInput, domain.UpdateTaskInput]{
				List:   api.ListTasks,
				Create: api.CreateTask,
				Update: api.UpdateTask,
				Delete: api.DeleteTask,
			},
			resource.Options[domain.Task, domain.UpdateTaskInput]{
				Name:       "task",
				Discipline: resource.Optimistic,
				Placement:  resource.Tail,
				Apply:      applyTaskUpdate,
			},
			logger,
		),
		api: api,
	}
}

func applyTaskUpdate(t domain.Task, in domain.UpdateTaskInput) domain.Task {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.AssigneeID != nil {
		id := *in.AssigneeID
		t.AssigneeID = &id
	}
	if in.DueDate != nil {
		due := *in.DueDate
		t.DueDate = &due
	}
	return t
}

// Move places task id at in.Position within in.ColumnID. The moved task
// changes locally at once; sibling positions follow from a refetch once
// the server confirms.
func (t *Tasks) Move(ctx context.Context, id string, in domain.MoveTaskInput) (domain.Task, error) {
	if err := apperr.Validate(in); err != nil {
		return domain.Task{}, err
	}
	moved, err := t.Write(ctx, "move", id,
		func(cur domain.Task) domain.Task {
			cur.ColumnID = in.ColumnID
			cur.Position = in.Position
			return cur
		},
		func(ctx context.Context) (domain.Task, error) {
			return t.api.MoveTask(ctx, id, in)
		},
	)
	if err != nil {
		return domain.Task{}, err
	}
	// A failed refresh is reported through LastError.
	_ = t.FetchAll(ctx)
	return moved, nil
}

// InColumn returns the tasks of one column by position.
func (t *Tasks) InColumn(columnID string) []domain.Task {
	var out []domain.Task
	for _, task := range t.List() {
		if task.ColumnID == columnID {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

type CommentAPI interface {
	ListComments(ctx context.Context, taskID string) ([]domain.Comment, error)
	CreateComment(ctx context.Context, in domain.CreateCommentInput) (domain.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// Comments holds the thread of the task last fetched.
type Comments struct {
	*resource.Slice[domain.Comment, domain.CreateCommentInput, struct{}]
	api CommentAPI
}

func NewComments(api CommentAPI, logger *slog.Logger) *Comments {
	return &Comments{
		Slice: resource.New(
			resource.Backend[domain.Comment, domain.CreateCommentInput, struct{}]{
				Create: api.CreateComment,
				Delete: api.DeleteComment,
			},
			resource.Options[domain.Comment, struct{}]{
				Name:       "comment",
				Discipline: resource.Confirmed,
				Placement:  resource.Tail,
			},
			logger,
		),
		api: api,
	}
}

func (c *Comments) FetchForTask(ctx context.Context, taskID string) error {
	return c.FetchWith(ctx, func(ctx context.Context) ([]domain.Comment, error) {
		return c.api.ListComments(ctx, taskID)
	})
}
