package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/rs/cors"

	"github.com/drkleen/backend/internal/admin"
	"github.com/drkleen/backend/internal/auth"
	"github.com/drkleen/backend/internal/bookings"
	"github.com/drkleen/backend/internal/catalog"
	"github.com/drkleen/backend/internal/config"
	"github.com/drkleen/backend/internal/dashboard"
	"github.com/drkleen/backend/internal/inquiries"
	"github.com/drkleen/backend/internal/mailer"
	"github.com/drkleen/backend/internal/middleware"
	"github.com/drkleen/backend/internal/repository"
	"github.com/drkleen/backend/internal/router"
	"github.com/drkleen/backend/migrations"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Local development convenience only; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("Cannot reach PostgreSQL. Ensure Postgres is running, e.g. docker-compose up -d", "error", err)
		os.Exit(1)
	}
	slog.Info("Connected to PostgreSQL")

	if err := runMigrations(ctx, pool); err != nil {
		slog.Error("Schema migrations failed", "error", err)
		os.Exit(1)
	}

	// River's own tables.
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		slog.Error("Failed to create River migrator", "error", err)
		os.Exit(1)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		slog.Error("River migrate up failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Migrations applied")

	// Mail staging and the background purge of old staged rows.
	emailRepo := mailer.NewRepository(pool)
	dispatcher := mailer.NewDispatcher(emailRepo, cfg.FrontendURL, logger)
	emailHandler := mailer.NewHandler(emailRepo, dispatcher, logger)

	workers := river.NewWorkers()
	river.AddWorker(workers, mailer.NewPurgeEmailsWorker(emailRepo, logger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 2},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(24*time.Hour),
				func() (river.JobArgs, *river.InsertOpts) {
					return mailer.PurgeEmailsArgs{
						RetentionHours: int(cfg.EmailRetention.Hours()),
					}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		slog.Error("Failed to create River client", "error", err)
		os.Exit(1)
	}

	// Auth stack.
	authRepo := auth.NewRepository(pool)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(authRepo, tokens, dispatcher, logger)
	authHandler := auth.NewHandler(authSvc, logger)

	// Domain repositories.
	productRepo := repository.NewProductRepo(pool)
	serviceRepo := repository.NewServiceRepo(pool)
	bannerRepo := repository.NewBannerRepo(pool)
	testimonialRepo := repository.NewTestimonialRepo(pool)
	bookingRepo := repository.NewBookingRepo(pool)
	inquiryRepo := repository.NewInquiryRepo(pool)
	settingRepo := repository.NewSettingRepo(pool)
	entityRepo := repository.NewEntityRepo(pool)

	handlers := router.Handlers{
		Auth:      authHandler,
		Admin:     admin.NewHandler(authRepo, settingRepo, productRepo, serviceRepo, logger),
		Dashboard: dashboard.NewHandler(dashboard.NewRepo(pool), entityRepo, logger),
		Catalog:   catalog.NewHandler(productRepo, serviceRepo, bannerRepo, testimonialRepo, logger),
		Bookings:  bookings.NewHandler(bookingRepo, logger),
		Inquiries: inquiries.NewHandler(inquiryRepo, logger),
		Emails:    emailHandler,
	}

	guard := middleware.AdminAuth(authSvc)
	authLimit := httprate.LimitByIP(cfg.AuthRateLimit, time.Minute)
	mux := router.New(handlers, guard, authLimit)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}).Handler(mux)

	riverCtx, stopRiver := context.WithCancel(ctx)
	defer stopRiver()
	go func() {
		if err := riverClient.Start(riverCtx); err != nil && riverCtx.Err() == nil {
			slog.Error("River client stopped", "error", err)
		}
	}()

	addr := cfg.ServerAddr()
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}

// runMigrations applies the embedded SQL migrations through a database/sql
// handle borrowed from the pgx pool.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return goose.UpContext(ctx, db, ".")
}
