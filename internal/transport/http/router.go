package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/ErlanBelekov/focusboard/internal/transport/http/handler"
	"github.com/ErlanBelekov/focusboard/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth   *handler.AuthHandler
	Focus  *handler.FocusHandler
	Board  *handler.BoardHandler
	Team   *handler.TeamHandler
	Admin  *handler.AdminHandler
	Health *handler.HealthHandler
}

func NewRouter(logger *slog.Logger, h Handlers, authz middleware.Authorizer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(authz)

	api := r.Group("/api")
	api.GET("/health", h.Health.Get)

	auth := api.Group("/auth")
	auth.POST("/authenticate", h.Auth.Authenticate)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/verify", h.Auth.Verify)
	auth.POST("/logout", authMW, h.Auth.Logout)

	focus := api.Group("/focus", authMW)
	focus.GET("", h.Focus.List)
	focus.POST("/start", h.Focus.Start)
	focus.POST("/:id/end", h.Focus.End)
	focus.DELETE("/:id", h.Focus.Delete)

	kanban := api.Group("/kanban", authMW)
	kanban.GET("/columns", h.Board.ListColumns)
	kanban.POST("/columns", h.Board.CreateColumn)
	kanban.PATCH("/columns/:id", h.Board.UpdateColumn)
	kanban.DELETE("/columns/:id", h.Board.DeleteColumn)
	kanban.GET("/tasks", h.Board.ListTasks)
	kanban.POST("/tasks", h.Board.CreateTask)
	kanban.PATCH("/tasks/:id", h.Board.UpdateTask)
	kanban.PATCH("/tasks/:id/move", h.Board.MoveTask)
	kanban.DELETE("/tasks/:id", h.Board.DeleteTask)

	comments := api.Group("/comment", authMW)
	comments.GET("/task/:taskId", h.Board.ListComments)
	comments.POST("", h.Board.CreateComment)
	comments.DELETE("/:id", h.Board.DeleteComment)

	notifications := api.Group("/notifications", authMW)
	notifications.GET("", h.Team.Notifications)
	notifications.POST("/:id/read", h.Team.MarkRead)

	invitations := api.Group("/invitations", authMW)
	invitations.POST("/:id/accept", h.Team.Accept)
	invitations.POST("/:id/decline", h.Team.Decline)

	teams := api.Group("/teams", authMW)
	teams.GET("", h.Team.List)
	teams.POST("", h.Team.Create)
	teams.POST("/:id/invitations", h.Team.Invite)
	teams.DELETE("/:id", h.Team.Delete)

	admin := api.Group("/admin", authMW, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id", h.Admin.UpdateUser)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.GET("/teams", h.Admin.ListTeams)
	admin.DELETE("/teams/:id", h.Admin.DeleteTeam)

	return r
}
