// devserver runs the reference REST backend on in-memory storage.
// Run: go run ./cmd/devserver
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/focusboard/config"
	"github.com/ErlanBelekov/focusboard/internal/email"
	"github.com/ErlanBelekov/focusboard/internal/health"
	"github.com/ErlanBelekov/focusboard/internal/infrastructure/memory"
	ctxlog "github.com/ErlanBelekov/focusboard/internal/log"
	"github.com/ErlanBelekov/focusboard/internal/metrics"
	httptransport "github.com/ErlanBelekov/focusboard/internal/transport/http"
	"github.com/ErlanBelekov/focusboard/internal/transport/http/handler"
	"github.com/ErlanBelekov/focusboard/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := memory.NewStore()
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// Auth
	authUsecase := usecase.NewAuthUsecase(store.Users(), store.Revocations(), []byte(cfg.JWTSecret), cfg.JWTTTL, cfg.MFAIssuer, cfg.AdminEmail)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Focus and board
	focusHandler := handler.NewFocusHandler(usecase.NewFocusUsecase(store.Focus()), logger)
	boardHandler := handler.NewBoardHandler(usecase.NewBoardUsecase(store.Columns(), store.Tasks(), store.Comments(), store.Users()), logger)

	// Teams
	teamUsecase := usecase.NewTeamUsecase(store.Teams(), store.Invitations(), store.Notifications(), store.Users(), sender, cfg.AppBaseURL, logger)
	teamHandler := handler.NewTeamHandler(teamUsecase, logger)

	// Admin
	adminHandler := handler.NewAdminHandler(usecase.NewAdminUsecase(store.Users(), store.Teams(), store.Focus()), logger)

	metrics.RegisterServer(prometheus.DefaultRegisterer)
	checker := health.NewChecker(map[string]health.Pinger{"store": store}, logger, prometheus.DefaultRegisterer)

	router := httptransport.NewRouter(logger, httptransport.Handlers{
		Auth:   authHandler,
		Focus:  focusHandler,
		Board:  boardHandler,
		Team:   teamHandler,
		Admin:  adminHandler,
		Health: handler.NewHealthHandler(checker),
	}, authUsecase)

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}
