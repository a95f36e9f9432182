package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/handler"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/repo"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/service"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/config"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/db"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/middleware"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/route"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/storage"
)

func main() {
	configFile := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log := config.NewLogger(cfg.Log.Level, os.Stdout)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := db.ConnectPostgres(cfg.DB.DSN, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(pg); err != nil {
		return err
	}

	mongoClient, mongoDB, err := db.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	blobs, err := storage.NewR2Store(ctx, storage.Options{
		AccountID:       cfg.Storage.AccountID,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		AccessKeySecret: cfg.Storage.AccessKeySecret,
		Endpoint:        cfg.Storage.Endpoint,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return err
	}

	tierTable := cfg.Review.PointTiers
	if len(tierTable) == 0 {
		tierTable = service.DefaultPointTiers()
	}
	tiers, err := service.NewPointTiers(tierTable)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps := service.Deps{
		Logger:  log,
		Metrics: service.NewPrometheusMetrics(registry),
	}

	achievementRepo := repo.NewAchievementRepo(pg)
	memberRepo := repo.NewMemberRepo(pg)
	leaderboardRepo := repo.NewLeaderboardRepo(pg)
	reviewLog := repo.NewReviewLogRepo(mongoDB)
	if err := reviewLog.EnsureIndexes(ctx); err != nil {
		log.Warn("review log indexes not created", "error", err)
	}

	achievementService := service.NewAchievementService(achievementRepo, memberRepo, blobs, cfg.Storage.Bucket, deps)
	reviewService := service.NewReviewService(achievementRepo, memberRepo, reviewLog, tiers, deps)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, memberRepo, deps)

	backlog := service.NewBacklogReporter(achievementRepo, deps)
	scheduler, err := backlog.Start(cfg.Scheduler.BacklogInterval)
	if err != nil {
		return err
	}
	defer func() { _ = scheduler.Shutdown() }()

	app := config.NewApp(cfg.App, log)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.Use("/api", middleware.RequestTimeout(cfg.App.RequestTimeout))
	route.SetupRoutes(app, route.Handlers{
		Achievements: handler.NewAchievementHandler(achievementService),
		Reviews:      handler.NewReviewHandler(reviewService),
		Leaderboard:  handler.NewLeaderboardHandler(leaderboardService),
	}, cfg.JWT.Secret)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.App.Port)
	}()
	log.Info("listening", "port", cfg.App.Port)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}
