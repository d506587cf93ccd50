package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arlanov/hearthpass/internal/core/port"
	"github.com/arlanov/hearthpass/internal/infra/config"
	"github.com/arlanov/hearthpass/internal/transport/http/handlers"
	"github.com/arlanov/hearthpass/internal/transport/http/middleware"
	"github.com/arlanov/hearthpass/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Policies   *usecase.PolicyService
	Ledger     *usecase.LedgerService
	Rotation   *usecase.RotationService
	Guardian   *usecase.GuardianService
	Classifier *usecase.ClassifierService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config    *config.AppConfig
	Logger    *zap.Logger
	Services  ServiceSet
	Directory port.OwnerDirectory
	Metrics   *middleware.HTTPMetrics
	Database  DatabaseChecker
	Cache     CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		policyHandler := handlers.NewPolicyHandler(deps.Services.Policies)
		policyHandler.RegisterRoutes(api.Group("/passwords"))

		credentialHandler := handlers.NewCredentialHandler(deps.Services.Ledger)
		credentialHandler.RegisterRoutes(api.Group("/credentials"))

		rotationHandler := handlers.NewRotationHandler(deps.Services.Rotation)
		rotationHandler.RegisterRoutes(api.Group("/queue"))

		guardianHandler := handlers.NewGuardianHandler(deps.Services.Guardian)
		guardianHandler.RegisterRoutes(api.Group("/guardian"))

		ownerHandler := handlers.NewOwnerHandler(deps.Directory, deps.Services.Classifier)
		ownerHandler.RegisterRoutes(api.Group("/owners"))
	}

	return r
}
