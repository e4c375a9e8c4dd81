package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/usecase"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin dashboard. Routes are gated on the ADMIN
// role by the router.
type AdminHandler struct {
	adminUsecase *usecase.AdminUsecase
	logger       *slog.Logger
}

func NewAdminHandler(adminUsecase *usecase.AdminUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{adminUsecase: adminUsecase, logger: logger.With("component", "admin_handler")}
}

func (h *AdminHandler) ListUsers(ctx *gin.Context) {
	users, err := h.adminUsecase.ListUsers(ctx.Request.Context())
	if err != nil {
		writeError(ctx, h.logger, "list users", err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(ctx *gin.Context) {
	var req domain.UpdateUserInput
	if !bind(ctx, &req) {
		return
	}
	u, err := h.adminUsecase.UpdateUser(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		writeError(ctx, h.logger, "update user", err)
		return
	}
	ctx.JSON(http.StatusOK, u)
}

func (h *AdminHandler) DeleteUser(ctx *gin.Context) {
	if err := h.adminUsecase.DeleteUser(ctx.Request.Context(), ctx.GetString("userID"), ctx.Param("id")); err != nil {
		writeError(ctx, h.logger, "delete user", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListTeams(ctx *gin.Context) {
	teams, err := h.adminUsecase.ListTeams(ctx.Request.Context())
	if err != nil {
		writeError(ctx, h.logger, "list teams", err)
		return
	}
	ctx.JSON(http.StatusOK, teams)
}

func (h *AdminHandler) DeleteTeam(ctx *gin.Context) {
	if err := h.adminUsecase.DeleteTeam(ctx.Request.Context(), ctx.Param("id")); err != nil {
		writeError(ctx, h.logger, "delete team", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
