package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrinsight/internal/domain/attrition"
	"hrinsight/internal/domain/audit"
	"hrinsight/internal/domain/auth"
	"hrinsight/internal/domain/employees"
	"hrinsight/internal/domain/notifications"
	"hrinsight/internal/domain/salary"
	"hrinsight/internal/domain/sentiment"
	"hrinsight/internal/domain/skills"
	"hrinsight/internal/domain/talent"
	"hrinsight/internal/platform/config"
	cryptoutil "hrinsight/internal/platform/crypto"
	"hrinsight/internal/platform/db"
	"hrinsight/internal/platform/email"
	"hrinsight/internal/platform/events"
	"hrinsight/internal/platform/jobs"
	"hrinsight/internal/platform/metrics"
	analyticshandler "hrinsight/internal/transport/http/handlers/analytics"
	audithandler "hrinsight/internal/transport/http/handlers/audit"
	notificationshandler "hrinsight/internal/transport/http/handlers/notifications"
	reportshandler "hrinsight/internal/transport/http/handlers/reports"
	skillshandler "hrinsight/internal/transport/http/handlers/skills"
	"hrinsight/internal/transport/http/middleware"
)

const permissionCacheTTL = 30 * time.Second

type App struct {
	Config    config.Config
	DB        *pgxpool.Pool
	Router    http.Handler
	Metrics   *metrics.Manager
	Rules     *attrition.RulesHolder
	Attrition *attrition.Service
	Jobs      *jobs.Service

	publisher *events.KafkaPublisher
	cancel    context.CancelFunc
}

// New connects to the database, prepares the schema and wires every service.
// Background work (job worker, cron schedule, rules watcher) stops on Close.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		applied, err := db.Migrate(ctx, pool, cfg.MigrationsDir)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		if len(applied) > 0 {
			slog.Info("migrations applied", "versions", applied)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	rules := attrition.DefaultRules()
	if cfg.AnalyticsRulesFile != "" {
		rules, err = config.LoadRules(cfg.AnalyticsRulesFile)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}

	fieldCrypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		pool.Close()
		return nil, err
	}

	bgCtx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     pool,
		Rules:  attrition.NewRulesHolder(rules),
		Jobs:   jobs.New(pool),
		cancel: cancel,
	}
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}

	employeeStore := employees.NewStore(pool, fieldCrypto)
	notifier := notifications.New(notifications.NewStore(pool), email.New(cfg))
	notifier.DefaultFrom = cfg.EmailFrom
	if email.Enabled(cfg) {
		slog.Info("email notifications enabled", "smtpHost", cfg.SMTPHost)
	}

	app.Attrition = attrition.NewService(employeeStore, attrition.NewStore(pool), app.Rules)
	app.Attrition.Jobs = app.Jobs
	app.Attrition.Notifier = notifier
	app.Attrition.Publisher = app.eventPublisher()
	if app.Metrics != nil {
		app.Attrition.Observer = app.Metrics
	}

	app.Jobs.Start(bgCtx)
	if cfg.AttritionRecalcCron != "" {
		if err := app.Jobs.ScheduleRecalculation(bgCtx, cfg.AttritionRecalcCron, app.Attrition); err != nil {
			app.Close()
			return nil, fmt.Errorf("schedule recalculation: %w", err)
		}
	}
	if cfg.AnalyticsRulesFile != "" {
		go func() {
			if err := config.WatchRules(bgCtx, cfg.AnalyticsRulesFile, app.Rules); err != nil {
				slog.Error("rules watcher stopped", "err", err)
			}
		}()
	}

	perms := auth.NewPermissionCache(auth.NewStore(pool), permissionCacheTTL)
	auditor := audit.New(pool)

	analytics := analyticshandler.NewHandler(
		app.Attrition,
		salary.NewService(employeeStore, cfg.SalaryWarningThreshold),
		sentiment.NewService(sentiment.NewStore(pool)),
		talent.NewService(employeeStore),
		auditor,
		perms,
	)
	analytics.ReportsDir = cfg.ReportsDir
	analytics.Queue = app.Jobs

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if app.Metrics != nil {
		router.Use(middleware.Metrics(app.Metrics))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if app.Metrics != nil {
		router.Handle("/metrics", app.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.HeavyRouteRateLimit(cfg.RateLimitPerMinute, time.Minute))

		analytics.RegisterRoutes(r)
		skillshandler.NewHandler(skills.NewService(skills.NewStore(pool), employeeStore), perms).RegisterRoutes(r)
		reportshandler.NewHandler(app.Jobs, perms).RegisterRoutes(r)
		audithandler.NewHandler(auditor, perms).RegisterRoutes(r)
		notificationshandler.NewHandler(notifier, perms).RegisterRoutes(r)
	})

	app.Router = router
	return app, nil
}

func (a *App) eventPublisher() attrition.Publisher {
	a.publisher = events.NewKafkaPublisher(a.Config.KafkaBrokers, a.Config.KafkaRiskTopic)
	if a.publisher == nil {
		return events.LogPublisher{}
	}
	if a.Metrics != nil {
		a.publisher.OnFailed = a.Metrics.PublishFailed
	}
	slog.Info("risk events enabled", "brokers", strings.Join(a.Config.KafkaBrokers, ","), "topic", a.Config.KafkaRiskTopic)
	return a.publisher
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if err := a.publisher.Close(); err != nil {
		slog.Warn("kafka writer close failed", "err", err)
	}
	if a.DB != nil {
		a.DB.Close()
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func Run() error {
	cfg := config.Load()
	setupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("hrinsight listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
