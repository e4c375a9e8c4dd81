package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/usecase"
	"github.com/gin-gonic/gin"
)

// BoardHandler serves columns, tasks and comments.
type BoardHandler struct {
	boardUsecase *usecase.BoardUsecase
	logger       *slog.Logger
}

func NewBoardHandler(boardUsecase *usecase.BoardUsecase, logger *slog.Logger) *BoardHandler {
	return &BoardHandler{boardUsecase: boardUsecase, logger: logger.With("component", "board_handler")}
}

func (h *BoardHandler) ListColumns(ctx *gin.Context) {
	cols, err := h.boardUsecase.ListColumns(ctx.Request.Context(), ctx.GetString("userID"))
	if err != nil {
		writeError(ctx, h.logger, "list columns", err)
		return
	}
	ctx.JSON(http.StatusOK, cols)
}

func (h *BoardHandler) CreateColumn(ctx *gin.Context) {
	var req domain.CreateColumnInput
	if !bind(ctx, &req) {
		return
	}
	col, err := h.boardUsecase.CreateColumn(ctx.Request.Context(), ctx.GetString("userID"), req)
	if err != nil {
		writeError(ctx, h.logger, "create column", err)
		return
	}
	ctx.JSON(http.StatusCreated, col)
}

func (h *BoardHandler) UpdateColumn(ctx *gin.Context) {
	var req domain.UpdateColumnInput
	if !bind(ctx, &req) {
		return
	}
	col, err := h.boardUsecase.UpdateColumn(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id"), req)
	if err != nil {
		writeError(ctx, h.logger, "update column", err)
		return
	}
	ctx.JSON(http.StatusOK, col)
}

func (h *BoardHandler) DeleteColumn(ctx *gin.Context) {
	if err := h.boardUsecase.DeleteColumn(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); err != nil {
		writeError(ctx, h.logger, "delete column", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *BoardHandler) ListTasks(ctx *gin.Context) {
	tasks, err := h.boardUsecase.ListTasks(ctx.Request.Context(), ctx.GetString("userID"))
	if err != nil {
		writeError(ctx, h.logger, "list tasks", err)
		return
	}
	ctx.JSON(http.StatusOK, tasks)
}

func (h *BoardHandler) CreateTask(ctx *gin.Context) {
	var req domain.CreateTaskInput
	if !bind(ctx, &req) {
		return
	}
	task, err := h.boardUsecase.CreateTask(ctx.Request.Context(), ctx.GetString("userID"), req)
	if err != nil {
		writeError(ctx, h.logger, "create task", err)
		return
	}
	ctx.JSON(http.StatusCreated, task)
}

func (h *BoardHandler) UpdateTask(ctx *gin.Context) {
	var req domain.UpdateTaskInput
	if !bind(ctx, &req) {
		return
	}
	task, err := h.boardUsecase.UpdateTask(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id"), req)
	if err != nil {
		writeError(ctx, h.logger, "update task", err)
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (h *BoardHandler) MoveTask(ctx *gin.Context) {
	var req domain.MoveTaskInput
	if !bind(ctx, &req) {
		return
	}
	task, err := h.boardUsecase.MoveTask(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id"), req)
	if err != nil {
		writeError(ctx, h.logger, "move task", err)
		return
	}
	ctx.JSON(http.StatusOK, task)
}

func (h *BoardHandler) DeleteTask(ctx *gin.Context) {
	if err := h.boardUsecase.DeleteTask(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); err != nil {
		writeError(ctx, h.logger, "delete task", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *BoardHandler) ListComments(ctx *gin.Context) {
	comments, err := h.boardUsecase.ListComments(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("taskId"))
	if err != nil {
		writeError(ctx, h.logger, "list comments", err)
		return
	}
	ctx.JSON(http.StatusOK, comments)
}

func (h *BoardHandler) CreateComment(ctx *gin.Context) {
	var req domain.CreateCommentInput
	if !bind(ctx, &req) {
		return
	}
	comment, err := h.boardUsecase.CreateComment(ctx.Request.Context(), ctx.GetString("userID"), req)
	if err != nil {
		writeError(ctx, h.logger, "create comment", err)
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}

func (h *BoardHandler) DeleteComment(ctx *gin.Context) {
	if err := h.boardUsecase.DeleteComment(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); err != nil {
		writeError(ctx, h.logger, "delete comment", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
