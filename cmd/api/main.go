package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subslayer/subslayer/internal/assistant"
	"github.com/subslayer/subslayer/internal/bus"
	"github.com/subslayer/subslayer/internal/category"
	categoryStore "github.com/subslayer/subslayer/internal/category/store"
	"github.com/subslayer/subslayer/internal/config"
	"github.com/subslayer/subslayer/internal/database"
	"github.com/subslayer/subslayer/internal/email"
	"github.com/subslayer/subslayer/internal/export"
	subslayerHttp "github.com/subslayer/subslayer/internal/http"
	assistantHandler "github.com/subslayer/subslayer/internal/http/assistant"
	categoryHandler "github.com/subslayer/subslayer/internal/http/category"
	notificationHandler "github.com/subslayer/subslayer/internal/http/notification"
	settingsHandler "github.com/subslayer/subslayer/internal/http/settings"
	subHandler "github.com/subslayer/subslayer/internal/http/subscription"
	"github.com/subslayer/subslayer/internal/importer"
	"github.com/subslayer/subslayer/internal/notification"
	notificationStore "github.com/subslayer/subslayer/internal/notification/store"
	"github.com/subslayer/subslayer/internal/push"
	"github.com/subslayer/subslayer/internal/scheduler"
	"github.com/subslayer/subslayer/internal/settings"
	settingsStore "github.com/subslayer/subslayer/internal/settings/store"
	"github.com/subslayer/subslayer/internal/subscription"
	subStore "github.com/subslayer/subslayer/internal/subscription/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cache, err := database.NewCache(cfg.Cache.Path)
	if err != nil {
		slog.Error("failed to open notification cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	changes := bus.New[subscription.ChangeEvent]()

	var (
		subscriptionService = subscription.NewService(subStore.New(db), changes)
		settingsService     = settings.NewService(settingsStore.New(db))
		categoryService     = category.NewService(categoryStore.New(db))
		importService       = importer.NewService(categoryService)
		exportService       = export.NewService(subscriptionService)
		notificationRepo    = notificationStore.NewTwoTier(notificationStore.NewRemote(db), notificationStore.NewCache(cache))
		notificationService = notification.NewService(notificationRepo)
		assistantService    = assistant.NewService(assistant.NewClient(cfg.Assistant.Endpoint), subscriptionService, settingsService)
	)

	engine := notification.NewEngine(
		subscriptionService,
		settingsService,
		notificationRepo,
		push.NewClient(cfg.Push.GatewayURL),
		email.NewClient(cfg.Email.RelayURL, cfg.Email.APIKey, cfg.Email.Sender),
	)

	// Re-evaluate a user's notifications whenever their subscriptions change.
	// The sweep runs off the request path; its failures only cost a reminder.
	changes.Subscribe(func(event subscription.ChangeEvent) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if _, err := engine.Sweep(ctx, event.UserID, time.Now()); err != nil {
				slog.Error("sweeping after subscription change", "user", event.UserID, "error", err)
			}
		}()
	})

	sched := scheduler.New(scheduler.NewJobs(subscriptionService, engine), scheduler.Schedules{
		Sweep:  cfg.Scheduler.SweepSchedule,
		Digest: cfg.Scheduler.DigestSchedule,
		Report: cfg.Scheduler.ReportSchedule,
	})
	sched.Start()

	var (
		subscriptionH = subHandler.NewHandler(subscriptionService, exportService, importService)
		settingsH     = settingsHandler.NewHandler(settingsService)
		notificationH = notificationHandler.NewHandler(notificationService, engine)
		assistantH    = assistantHandler.NewHandler(assistantService)
		categoryH     = categoryHandler.NewHandler(categoryService)
	)

	router := subslayerHttp.New(cfg.Auth.JWTSecret, cfg.Server.AllowedOrigin,
		subscriptionH, settingsH, notificationH, assistantH, categoryH)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	<-sched.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
