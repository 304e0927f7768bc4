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

	"cloud.google.com/go/firestore"
	"github.com/Dosada05/codm-tournament/brackets"
	"github.com/Dosada05/codm-tournament/config"
	"github.com/Dosada05/codm-tournament/db"
	"github.com/Dosada05/codm-tournament/guard"
	"github.com/Dosada05/codm-tournament/handlers"
	"github.com/Dosada05/codm-tournament/metrics"
	"github.com/Dosada05/codm-tournament/models"
	"github.com/Dosada05/codm-tournament/repositories"
	api "github.com/Dosada05/codm-tournament/routes"
	"github.com/Dosada05/codm-tournament/services"
	"github.com/Dosada05/codm-tournament/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"google.golang.org/api/option"
)

const metricsNamespace = "codm_tournament"

// @title CoD Mobile Tournament API
// @version 1.0
// @description Brackets, match results, standings and kill leaderboards for CoD Mobile tournaments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := &cli.App{
		Name:           "codm-tournament",
		Usage:          "CoD Mobile tournament engine",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the embedded Postgres schema",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger := newLogger(cfg.LogLevel)

			dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			if err := db.Migrate(c.Context, dbConn); err != nil {
				return err
			}
			logger.Info("schema applied")
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "apply the schema before serving",
			},
			&cli.DurationFlag{
				Name:  "stats-interval",
				Usage: "how often stats of active tournaments are recomputed (0 disables)",
				Value: 5 * time.Minute,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			return serve(c.Context, cfg, c.Bool("migrate"), c.Duration("stats-interval"))
		},
	}
}

func serve(parent context.Context, cfg *config.Config, migrate bool, statsInterval time.Duration) error {
	logger := newLogger(cfg.LogLevel)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("roster_source", string(cfg.RosterSource)),
		slog.Bool("redis_guard", cfg.RedisURL != ""),
		slog.Bool("archive_export", cfg.R2.Enabled()),
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if migrate {
		if err := db.Migrate(ctx, dbConn); err != nil {
			return err
		}
		logger.Info("schema applied")
	}

	var uploader storage.FileUploader
	if cfg.R2.Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	var submissionGuard guard.SubmissionGuard
	if cfg.RedisURL != "" {
		redisClient, err := guard.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		submissionGuard = guard.NewRedisGuard(redisClient, cfg.SubmissionGuardTTL, logger)
		logger.Info("redis submission guard enabled")
	} else {
		submissionGuard = guard.NewMemoryGuard(cfg.SubmissionGuardTTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(dbConn, "postgres"),
	)
	recorder := metrics.NewPrometheusRecorder(registry, metricsNamespace)

	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	txManager := repositories.NewTxManager(dbConn, logger)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	leaderboardRepo := repositories.NewPostgresLeaderboardRepository(dbConn)
	resultRepo := repositories.NewPostgresGameResultRepository(dbConn)

	var rosters repositories.RosterSource = teamRepo
	if cfg.RosterSource == config.RosterSourceFirestore {
		fsClient, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)))
		if err != nil {
			return fmt.Errorf("create firestore client: %w", err)
		}
		defer fsClient.Close()
		rosters = repositories.NewFirestoreRosterSource(fsClient)
		logger.Info("firestore roster source enabled", slog.String("project_id", cfg.FirebaseProjectID))
	}
	logger.Info("Repositories initialized")

	leaderboardService := services.NewLeaderboardService(txManager, tournamentRepo, leaderboardRepo, rosters, wsHub, recorder, logger)
	bracketService := services.NewBracketService(txManager, tournamentRepo, matchRepo, rosters, wsHub, recorder, logger)
	matchService := services.NewMatchService(
		txManager,
		tournamentRepo,
		matchRepo,
		rosters,
		leaderboardService,
		bracketService,
		submissionGuard,
		wsHub,
		recorder,
		logger,
	)
	standingsService := services.NewStandingsService(tournamentRepo, matchRepo)
	tournamentService := services.NewTournamentService(txManager, tournamentRepo, matchRepo, rosters, leaderboardService, wsHub, logger)
	teamService := services.NewTeamService(txManager, tournamentRepo, teamRepo, wsHub, logger)
	rankingService := services.NewRankingService(tournamentRepo, resultRepo, rosters, wsHub, logger)
	archiveService := services.NewArchiveService(
		tournamentService,
		teamService,
		bracketService,
		standingsService,
		leaderboardService,
		rankingService,
		uploader,
		logger,
	)
	logger.Info("Services initialized")

	if statsInterval > 0 {
		go runStatsScheduler(ctx, tournamentService, statsInterval, logger)
	}

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:      []byte(cfg.JWTSecretKey),
			AllowedOrigins: cfg.AllowedOrigins,
			Gatherer:       registry,
			Health:         dbConn.PingContext,
			Logger:         logger,
		},
		handlers.NewTournamentHandler(tournamentService, archiveService),
		handlers.NewTeamHandler(teamService),
		handlers.NewMatchHandler(bracketService, matchService),
		handlers.NewStandingsHandler(standingsService),
		handlers.NewLeaderboardHandler(leaderboardService),
		handlers.NewRankingHandler(rankingService),
		handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.AllowedOrigins, logger),
	)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			return fmt.Errorf("could not stop server: %w", closeErr)
		}
		return err
	}
	logger.Info("server stopped")
	return nil
}

// runStatsScheduler keeps the stored counters of active tournaments fresh.
func runStatsScheduler(ctx context.Context, ts services.TournamentService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("stats scheduler started", slog.Duration("interval", interval))

	active := models.TournamentStatusActive
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tournaments, err := ts.ListTournaments(ctx, repositories.ListTournamentsFilter{Status: &active, Limit: 100})
			if err != nil {
				logger.ErrorContext(ctx, "scheduler: list active tournaments failed", slog.Any("error", err))
				continue
			}
			for _, t := range tournaments {
				if _, err := ts.RecomputeStats(ctx, t.ID); err != nil {
					logger.ErrorContext(ctx, "scheduler: recompute stats failed",
						slog.String("tournament_id", t.ID),
						slog.Any("error", err),
					)
				}
			}
		}
	}
}
