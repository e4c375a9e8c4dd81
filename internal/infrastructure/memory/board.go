package memory

import (
	"context"
	"sort"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/repository"
)

type ColumnRepository struct{ s *Store }

func (r *ColumnRepository) Create(_ context.Context, c *domain.Column) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.columns[c.ID] = *c
	return nil
}

func (r *ColumnRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Column, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Column
	for _, c := range r.s.columns {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *ColumnRepository) FindByID(_ context.Context, ownerID, id string) (*domain.Column, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.columns[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrColumnNotFound
	}
	return &c, nil
}

func (r *ColumnRepository) Update(_ context.Context, c *domain.Column) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.columns[c.ID]; !ok {
		return domain.ErrColumnNotFound
	}
	r.s.columns[c.ID] = *c
	return nil
}

func (r *ColumnRepository) Delete(_ context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.columns[id]
	if !ok || c.OwnerID != ownerID {
		return domain.ErrColumnNotFound
	}
	for _, t := range r.s.tasks {
		if t.ColumnID == id {
			return domain.ErrColumnNotEmpty
		}
	}
	delete(r.s.columns, id)
	return nil
}

type TaskRepository struct{ s *Store }

func (r *TaskRepository) Create(_ context.Context, t *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) ListByColumns(_ context.Context, columnIDs []string) ([]domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rank := make(map[string]int, len(columnIDs))
	for i, id := range columnIDs {
		rank[id] = i
	}
	var out []domain.Task
	for _, t := range r.s.tasks {
		if _, ok := rank[t.ColumnID]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ColumnID != out[j].ColumnID {
			return rank[out[i].ColumnID] < rank[out[j].ColumnID]
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *TaskRepository) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r *TaskRepository) Save(_ context.Context, tasks ...domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range tasks {
		r.s.tasks[t.ID] = t
	}
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	for cid, c := range r.s.comments {
		if c.TaskID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

type CommentRepository struct{ s *Store }

func (r *CommentRepository) Create(_ context.Context, c *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.comments[c.ID] = *c
	return nil
}

func (r *CommentRepository) ListByTask(_ context.Context, taskID string) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Comment
	for _, c := range r.s.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *CommentRepository) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &c, nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.s.comments, id)
	return nil
}

var (
	_ repository.ColumnRepository  = (*ColumnRepository)(nil)
	_ repository.TaskRepository    = (*TaskRepository)(nil)
	_ repository.CommentRepository = (*CommentRepository)(nil)
)
