package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Deymos01/git-slackin/internal/clients/github"
	"github.com/Deymos01/git-slackin/internal/clients/slack"
	"github.com/Deymos01/git-slackin/internal/config"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers/github/webhook"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers/slack/events"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers/users/list"
	"github.com/Deymos01/git-slackin/internal/httpserver/handlers/users/set_requestable"
	"github.com/Deymos01/git-slackin/internal/httpserver/middlewares"
	"github.com/Deymos01/git-slackin/internal/lib/git"
	"github.com/Deymos01/git-slackin/internal/repository/postgres"
	"github.com/Deymos01/git-slackin/internal/usecase/command"
	"github.com/Deymos01/git-slackin/internal/usecase/maintenance"
	"github.com/Deymos01/git-slackin/internal/usecase/pull_request"
	"github.com/Deymos01/git-slackin/internal/usecase/reviewer"
	"github.com/Deymos01/git-slackin/internal/usecase/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const (
	shutdownTimeout = 5 * time.Second
	bootTimeout     = 30 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("cannot read .env: %s", err)
	}

	store, err := config.NewStore(config.MustPath())
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	cfg := store.Current()

	log := setupLogger(cfg.Env)

	log.Info("starting git slackin", slog.String("env", cfg.Env))

	storage, err := postgres.New(cfg.PostgresConfig)
	if err != nil {
		log.Error("failed to initialize storage",
			slog.String("env", cfg.Env),
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	slackClient := slack.New(log, cfg.SlackConfig)

	githubClient, err := github.New(log, cfg.GitHubConfig)
	if err != nil {
		log.Error("failed to initialize github client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo := git.New(cfg.MaintenanceConfig.RepoDir)

	restarts := make(chan maintenance.RestartRequest, 1)
	signalRestart := func(r maintenance.RestartRequest) {
		select {
		case restarts <- r:
		default:
		}
	}

	userService := user.New(log, storage)
	selector := reviewer.New(log, storage)
	prService := pull_request.New(log, storage, selector, slackClient, githubClient, cfg.ReviewersConfig.Count)
	maintenanceService := maintenance.New(log, repo, store, slackClient, userService, signalRestart,
		cfg.MaintenanceConfig.DefaultBranch, cfg.MaintenanceConfig.NotifyTimeout)
	dispatcher := command.New(log, userService, slackClient, maintenanceService, repo, cfg.SlackConfig.AdminIDs)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/", handlers.Banner)

	router.With(middlewares.GitHubSignature(log, cfg.GitHubConfig.WebhookSecret)).
		Post("/payload", webhook.New(log, prService, cfg.HTTPServerConfig.WebhookTimeout))

	router.With(middlewares.SlackSignature(log, cfg.SlackConfig.SigningSecret, nil)).
		Post("/slack/events", events.New(log, dispatcher))

	router.Route("/users", func(r chi.Router) {
		r.Use(middlewares.AdminAuthMiddleware(log, cfg.HTTPServerConfig.AdminToken))
		r.Get("/list", list.New(log, userService))
		r.Post("/setRequestable", set_requestable.New(log, userService))
	})

	addr := cfg.HTTPServerConfig.Host + ":" + strconv.Itoa(cfg.HTTPServerConfig.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTPServerConfig.Timeout,
		WriteTimeout:      cfg.HTTPServerConfig.Timeout,
		IdleTimeout:       cfg.HTTPServerConfig.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	if channel := cfg.SlackConfig.BootChannel; channel != "" {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
			defer cancel()

			if err := dispatcher.Overview(ctx, channel); err != nil {
				log.Warn("failed to send boot message", slog.String("error", err.Error()))
			}
		}()
	}

	restarted := gracefulShutdown(context.Background(), srv, restarts, log)
	if restarted {
		// The supervisor brings the process back up with the new code or config.
		storage.Close()
		os.Exit(0)
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

// gracefulShutdown blocks until an OS signal or a restart request arrives, then
// stops the server. It reports whether a restart was requested.
func gracefulShutdown(ctx context.Context, srv *http.Server, restarts <-chan maintenance.RestartRequest, log *slog.Logger) bool {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	restarted := false
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case req := <-restarts:
		restarted = true
		log.Info("restart requested",
			slog.String("reason", req.Reason.String()),
			slog.String("by", req.RequestedBy))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", slog.Any("err", err))
		return restarted
	}

	log.Info("server exited gracefully")
	return restarted
}
