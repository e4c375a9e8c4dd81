package apiclient

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
)

func (c *Client) ListColumns(ctx context.Context) ([]domain.Column, error) {
	var out []domain.Column
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/kanban/columns", path: "/api/kanban/columns", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateColumn(ctx context.Context, in domain.CreateColumnInput) (domain.Column, error) {
	var out domain.Column
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/kanban/columns", path: "/api/kanban/columns", body: in, out: &out})
	return out, err
}

func (c *Client) UpdateColumn(ctx context.Context, id string, in domain.UpdateColumnInput) (domain.Column, error) {
	var out domain.Column
	err := c.do(ctx, call{
		method: http.MethodPatch, route: "/api/kanban/columns/:id", path: "/api/kanban/columns/" + escape(id),
		body: in, out: &out,
	})
	return out, err
}

func (c *Client) DeleteColumn(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/kanban/columns/:id", path: "/api/kanban/columns/" + escape(id)})
}

func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var out []domain.Task
	if err := c.do(ctx, call{method: http.MethodGet, route: "/api/kanban/tasks", path: "/api/kanban/tasks", out: &out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, in domain.CreateTaskInput) (domain.Task, error) {
	var out domain.Task
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/kanban/tasks", path: "/api/kanban/tasks", body: in, out: &out})
	return out, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, in domain.UpdateTaskInput) (domain.Task, error) {
	var out domain.Task
	err := c.do(ctx, call{
		method: http.MethodPatch, route: "/api/kanban/tasks/:id", path: "/api/kanban/tasks/" + escape(id),
		body: in, out: &out,
	})
	return out, err
}

func (c *Client) MoveTask(ctx context.Context, id string, in domain.MoveTaskInput) (domain.Task, error) {
	var out domain.Task
	err := c.do(ctx, call{
		method: http.MethodPatch, route: "/api/kanban/tasks/:id/move", path: "/api/kanban/tasks/" + escape(id) + "/move",
		body: in, out: &out,
	})
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/kanban/tasks/:id", path: "/api/kanban/tasks/" + escape(id)})
}

func (c *Client) ListComments(ctx context.Context, taskID string) ([]domain.Comment, error) {
	var out []domain.Comment
	err := c.do(ctx, call{
		method: http.MethodGet, route: "/api/comment/task/:taskId", path: "/api/comment/task/" + escape(taskID), out: &out,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, in domain.CreateCommentInput) (domain.Comment, error) {
	var out domain.Comment
	err := c.do(ctx, call{method: http.MethodPost, route: "/api/comment", path: "/api/comment", body: in, out: &out})
	return out, err
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/api/comment/:id", path: "/api/comment/" + escape(id)})
}
