package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/syndic-console/reclamation-service/internal/api/http"
	"github.com/syndic-console/reclamation-service/internal/api/http/handlers"
	"github.com/syndic-console/reclamation-service/internal/auth"
	"github.com/syndic-console/reclamation-service/internal/config"
	"github.com/syndic-console/reclamation-service/internal/events"
	"github.com/syndic-console/reclamation-service/internal/idempotency"
	"github.com/syndic-console/reclamation-service/internal/observability"
	"github.com/syndic-console/reclamation-service/internal/persistence"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/repository/memory"
	"github.com/syndic-console/reclamation-service/internal/service"
	"github.com/syndic-console/reclamation-service/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

type repositories struct {
	reclamations repository.ReclamationRepository
	history      repository.HistoryRepository
	directory    repository.DirectoryRepository
	charges      repository.ChargeRepository
	payments     repository.PaymentRepository
	tx           repository.TransactionManager
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			return err
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, logger)
	guard := idempotency.Noop()
	if redis.Enabled() {
		guard = idempotency.NewRedisGuard(redis.Client, cfg.Redis.IdempotencyTTL())
	}
	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartActivityLog(dispatcher, worker.NewActivityLog(logger, 200))

	reclamationService := service.NewReclamationService(service.ReclamationDependencies{
		ReclamationRepo: repos.reclamations,
		HistoryRepo:     repos.history,
		DirectoryRepo:   repos.directory,
		TxManager:       repos.tx,
		Dispatcher:      dispatcher,
		Logger:          logger,
		Rules:           service.RulesFromConfig(cfg.Validation),
	})
	billingService := service.NewBillingService(service.BillingDependencies{
		ChargeRepo:    repos.charges,
		DirectoryRepo: repos.directory,
		TxManager:     repos.tx,
		Guard:         guard,
		Dispatcher:    dispatcher,
		Logger:        logger,
		Location:      loc,
	})
	paymentService := service.NewPaymentService(service.PaymentDependencies{
		PaymentRepo: repos.payments,
		ChargeRepo:  repos.charges,
		HistoryRepo: repos.history,
		TxManager:   repos.tx,
		Guard:       guard,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true, Immutable: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Reclamations:   handlers.NewReclamationsHandler(reclamationService, loc),
		Charges:        handlers.NewChargesHandler(billingService, loc),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			return fmt.Errorf("fiber listen: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	return group.Wait()
}

func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	if !pg.Enabled() {
		store := memory.NewStore()
		memory.SeedDemoDirectory(store)
		logger.Info("using in-memory store with demo directory")
		return repositories{
			reclamations: store.Reclamations(),
			history:      store.History(),
			directory:    store.Directory(),
			charges:      store.Charges(),
			payments:     store.Payments(),
			tx:           store,
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		reclamations: repository.NewReclamationRepository(pool),
		history:      repository.NewHistoryRepository(pool),
		directory:    repository.NewDirectoryRepository(pool),
		charges:      repository.NewChargeRepository(pool),
		payments:     repository.NewPaymentRepository(pool),
		tx:           repository.NewTransactionManager(pool),
	}
}
