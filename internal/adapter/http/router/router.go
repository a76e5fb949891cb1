package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/adapter/client"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/adapter/credential"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/adapter/http/handler"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/adapter/http/middleware"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/adapter/repository/postgres"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/entity"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/domain/repository"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/infrastructure/config"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/infrastructure/metrics"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/pack"
	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/usecase"
)

// Setup creates and configures the Gin router.
// db and redisClient may be nil; history and the Redis credential store are then disabled.
func Setup(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *zap.Logger, reg *prometheus.Registry) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Language.EndpointURL)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Credential vault
	vault := credential.NewVault(newCredentialStore(cfg, redisClient, logger), cfg.Credential.SessionTTL)

	// Invocation history
	var invocationRepo repository.InvocationRepository
	if db != nil {
		invocationRepo = postgres.NewInvocationRepository(db)
	}

	// Initialize usecases
	p := pack.New(cfg.Language.NetworkDomains)
	languageClient := client.NewLanguageClient(vault, cfg.Language.Timeout, p.NetworkDomains)
	analysisUC := usecase.NewAnalysisUsecase(languageClient)
	formulaUC := usecase.NewFormulaUsecase(
		p,
		analysisUC,
		vault,
		invocationRepo,
		metrics.New(reg),
		logger,
		cfg.Language.CellConcurrency,
	)

	// Initialize handlers
	formulaHandler := handler.NewFormulaHandler(formulaUC, defaultCredentials(cfg))
	packHandler := handler.NewPackHandler(p)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/pack", packHandler.GetPack)
		v1.POST("/formulas/:name", formulaHandler.Execute)
		v1.POST("/column-formats/:name", formulaHandler.ApplyColumnFormat)
		v1.GET("/invocations", formulaHandler.ListInvocations)
	}

	return router
}

func newCredentialStore(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) credential.Store {
	if cfg.Credential.Store == config.CredentialStoreRedis {
		if redisClient != nil {
			return credential.NewRedisStore(redisClient)
		}
		logger.Warn("Redis credential store requested but Redis is unavailable, using memory store")
	}
	return credential.NewMemoryStore()
}

func defaultCredentials(cfg *config.Config) *entity.Credentials {
	if cfg.Language.EndpointURL == "" && cfg.Language.APIKey == "" {
		return nil
	}
	return entity.NewCredentials(cfg.Language.EndpointURL, cfg.Language.APIKey)
}
