package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/repository"
	"github.com/google/uuid"
)

// BoardUsecase manages a user's Kanban columns, their tasks and the
// comments on those tasks. A task belongs to whoever owns its column.
type BoardUsecase struct {
	columns  repository.ColumnRepository
	tasks    repository.TaskRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	now      func() time.Time
}

func NewBoardUsecase(columns repository.ColumnRepository, tasks repository.TaskRepository, comments repository.CommentRepository, users repository.UserRepository) *BoardUsecase {
	return &BoardUsecase{columns: columns, tasks: tasks, comments: comments, users: users, now: time.Now}
}

// ---- columns ----

func (u *BoardUsecase) ListColumns(ctx context.Context, userID string) ([]domain.Column, error) {
	cols, err := u.columns.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	if cols == nil {
		cols = []domain.Column{}
	}
	return cols, nil
}

func (u *BoardUsecase) CreateColumn(ctx context.Context, userID string, in domain.CreateColumnInput) (*domain.Column, error) {
	existing, err := u.columns.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	c := &domain.Column{ID: uuid.NewString(), OwnerID: userID, Title: in.Title, Position: len(existing)}
	if err := u.columns.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create column: %w", err)
	}
	return c, nil
}

func (u *BoardUsecase) UpdateColumn(ctx context.Context, userID, id string, in domain.UpdateColumnInput) (*domain.Column, error) {
	c, err := u.columns.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if err := u.columns.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update column: %w", err)
	}
	return c, nil
}

// DeleteColumn removes an empty column and closes the gap it leaves.
func (u *BoardUsecase) DeleteColumn(ctx context.Context, userID, id string) error {
	if err := u.columns.Delete(ctx, userID, id); err != nil {
		return err
	}
	rest, err := u.columns.ListByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list columns: %w", err)
	}
	for i := range rest {
		if rest[i].Position != i {
			rest[i].Position = i
			if err := u.columns.Update(ctx, &rest[i]); err != nil {
				return fmt.Errorf("renumber columns: %w", err)
			}
		}
	}
	return nil
}

// ---- tasks ----

func (u *BoardUsecase) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	cols, err := u.columns.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	tasks, err := u.tasks.ListByColumns(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (u *BoardUsecase) CreateTask(ctx context.Context, userID string, in domain.CreateTaskInput) (*domain.Task, error) {
	if _, err := u.columns.FindByID(ctx, userID, in.ColumnID); err != nil {
		return nil, err
	}
	siblings, err := u.tasks.ListByColumns(ctx, []string{in.ColumnID})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	t := &domain.Task{
		ID:          uuid.NewString(),
		ColumnID:    in.ColumnID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Position:    len(siblings),
		DueDate:     in.DueDate,
		CreatedAt:   u.now().UTC(),
	}
	if err := u.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// ownedTask loads a task and checks its column belongs to userID. Tasks of
// other users are reported as not found.
func (u *BoardUsecase) ownedTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	t, err := u.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := u.columns.FindByID(ctx, userID, t.ColumnID); err != nil {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (u *BoardUsecase) UpdateTask(ctx context.Context, userID, id string, in domain.UpdateTaskInput) (*domain.Task, error) {
	t, err := u.ownedTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
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
		t.AssigneeID = in.AssigneeID
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if err := u.tasks.Save(ctx, *t); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// MoveTask puts the task at in.Position of in.ColumnID and renumbers both
// the source and target columns so positions stay dense.
func (u *BoardUsecase) MoveTask(ctx context.Context, userID, id string, in domain.MoveTaskInput) (*domain.Task, error) {
	t, err := u.ownedTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := u.columns.FindByID(ctx, userID, in.ColumnID); err != nil {
		return nil, err
	}

	source := t.ColumnID
	affected := []string{source}
	if in.ColumnID != source {
		affected = append(affected, in.ColumnID)
	}
	all, err := u.tasks.ListByColumns(ctx, affected)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var target, rest []domain.Task
	for _, other := range all {
		switch {
		case other.ID == t.ID:
		case other.ColumnID == in.ColumnID:
			target = append(target, other)
		default:
			rest = append(rest, other)
		}
	}
	sort.SliceStable(target, func(i, j int) bool { return target[i].Position < target[j].Position })

	pos := min(max(in.Position, 0), len(target))
	t.ColumnID = in.ColumnID
	target = append(target[:pos], append([]domain.Task{*t}, target[pos:]...)...)
	renumber(target)
	renumber(rest)

	if err := u.tasks.Save(ctx, append(target, rest...)...); err != nil {
		return nil, fmt.Errorf("save moved tasks: %w", err)
	}
	t.Position = pos
	return t, nil
}

func renumber(tasks []domain.Task) {
	for i := range tasks {
		tasks[i].Position = i
	}
}

func (u *BoardUsecase) DeleteTask(ctx context.Context, userID, id string) error {
	t, err := u.ownedTask(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := u.tasks.Delete(ctx, id); err != nil {
		return err
	}
	rest, err := u.tasks.ListByColumns(ctx, []string{t.ColumnID})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	renumber(rest)
	if err := u.tasks.Save(ctx, rest...); err != nil {
		return fmt.Errorf("renumber tasks: %w", err)
	}
	return nil
}

// ---- comments ----

func (u *BoardUsecase) ListComments(ctx context.Context, userID, taskID string) ([]domain.Comment, error) {
	if _, err := u.ownedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	comments, err := u.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

func (u *BoardUsecase) CreateComment(ctx context.Context, userID string, in domain.CreateCommentInput) (*domain.Comment, error) {
	if _, err := u.ownedTask(ctx, userID, in.TaskID); err != nil {
		return nil, err
	}
	author, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	c := &domain.Comment{
		ID:          uuid.NewString(),
		TaskID:      in.TaskID,
		AuthorID:    userID,
		AuthorEmail: author.Email,
		Content:     in.Content,
		CreatedAt:   u.now().UTC(),
	}
	if err := u.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// DeleteComment removes a comment written by userID.
func (u *BoardUsecase) DeleteComment(ctx context.Context, userID, id string) error {
	c, err := u.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		return domain.ErrCommentNotFound
	}
	return u.comments.Delete(ctx, id)
}
