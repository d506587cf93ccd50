package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/infra/config"
	"github.com/arlanov/hearthpass/internal/infra/database"
	kafkainfra "github.com/arlanov/hearthpass/internal/infra/kafka"
	"github.com/arlanov/hearthpass/internal/infra/logger"
	"github.com/arlanov/hearthpass/internal/infra/owners"
	"github.com/arlanov/hearthpass/internal/infra/password"
	"github.com/arlanov/hearthpass/internal/infra/policy"
	redisinfra "github.com/arlanov/hearthpass/internal/infra/redis"
	"github.com/arlanov/hearthpass/internal/infra/security"
	postgresrepo "github.com/arlanov/hearthpass/internal/repository/postgres"
	redisrepo "github.com/arlanov/hearthpass/internal/repository/redis"
	"github.com/arlanov/hearthpass/internal/transport/http/middleware"
	"github.com/arlanov/hearthpass/internal/transport/http/routes"
	"github.com/arlanov/hearthpass/internal/usecase"
)

// Application wires configuration, infrastructure, and services into a
// runnable HTTP server.
type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

// New builds the application graph.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)
	tokenStore := redisrepo.NewOverrideTokenStore(redisClient.Client(), cfg.Redis.OverrideTokenPrefix)

	var auditPublisher port.AuditPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			auditPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			auditPublisher = kafkainfra.NewAuditPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka audit publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		auditPublisher = kafkainfra.NewStubPublisher(log)
	}

	directory := owners.Load(cfg.Owners, log)
	tables := policy.LoadTables(cfg.Policy, log)
	siteProfiles := policy.LoadSiteProfiles(cfg.Policy, log)

	proofCodec, err := security.NewProofCodec(cfg.Guardian.ProofSecret)
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init proof codec: %w", err)
	}

	policyService := usecase.NewPolicyService(policy.NewResolver(tables), password.NewGenerator(), log)
	classifierService := usecase.NewClassifierService(directory, log)
	guardianService := usecase.NewGuardianService(tokenStore, auditPublisher, proofCodec, cfg.Guardian, log)
	ledgerService := usecase.NewLedgerService(repos.Credentials, directory, auditPublisher, policyService, classifierService, log)
	rotationService := usecase.NewRotationService(repos.Queue, repos.Credentials, directory, auditPublisher, classifierService, guardianService, siteProfiles, cfg.Rotation.DueWindow, log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		_ = redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:    cfg,
		Logger:    log,
		Directory: directory,
		Metrics:   metrics,
		Database:  pool,
		Cache:     redisClient,
		Services: routes.ServiceSet{
			Policies:   policyService,
			Ledger:     ledgerService,
			Rotation:   rotationService,
			Guardian:   guardianService,
			Classifier: classifierService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting hearthpass API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
