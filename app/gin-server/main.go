package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/shahtaz/medusa/config"
	"github.com/shahtaz/medusa/internal/api/handlers"
	"github.com/shahtaz/medusa/internal/api/middleware"
	"github.com/shahtaz/medusa/internal/api/routes"
	"github.com/shahtaz/medusa/internal/cache"
	"github.com/shahtaz/medusa/internal/prompt"
	"github.com/shahtaz/medusa/internal/providers/embedding"
	"github.com/shahtaz/medusa/internal/providers/llm"
	mongorepo "github.com/shahtaz/medusa/internal/repositories/mongo"
	pgrepo "github.com/shahtaz/medusa/internal/repositories/postgres"
	"github.com/shahtaz/medusa/internal/services"
	"github.com/shahtaz/medusa/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadApp()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	logger.Info("PostgreSQL connected")

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	logger.Info("MongoDB connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	logger.Info("Redis connected")

	// Providers
	embedder, err := embedding.NewGemini(embedding.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.EmbeddingModel,
	})
	if err != nil {
		log.Fatalf("Embedding provider init error: %v", err)
	}

	generator, err := llm.NewVertexGemini(context.Background(), cfg.VertexProject, cfg.VertexLocation, cfg.GenModel)
	if err != nil {
		log.Fatalf("LLM provider init error: %v", err)
	}
	defer generator.Close()

	// Repositories
	vectorRepo := pgrepo.NewVectorRepo(config.PostgresDB)
	convoRepo := pgrepo.NewConversationRepo(config.PostgresDB)
	portfolioRepo := pgrepo.NewPortfolioRepo(config.PostgresDB)
	visitorRepo := mongorepo.NewVisitorRepo(config.MongoDatabase())

	// Background pool and shared pieces
	pool := worker.NewPool(worker.Config{}, logger)
	defer pool.Stop()

	redisCache := cache.NewRedisCache(config.RedisClient)
	prompts := prompt.NewBuilder(cfg.SystemPrompt, cfg.SummarizePrompt)

	// Services
	vectorSvc := services.NewVectorService(vectorRepo, embedder)
	retriever := services.NewRetriever(vectorSvc)
	syncSvc := services.NewSyncService(vectorSvc, logger)
	summarySvc := services.NewSummaryService(convoRepo, generator, prompts, logger)
	chatSvc := services.NewChatService(
		visitorRepo, convoRepo, retriever, prompts, generator,
		summarySvc, pool, redisCache, logger,
		services.ChatConfig{RetrievalLimit: cfg.RetrievalLimit, GenTimeout: cfg.GenTimeout},
	)
	portfolioSvc := services.NewPortfolioService(portfolioRepo, syncSvc, pool, logger)
	visitorSvc := services.NewVisitorService(visitorRepo)

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	routes.RegisterRoutes(r, routes.Deps{
		Chat:      handlers.NewChatHandler(chatSvc),
		Portfolio: handlers.NewPortfolioHandler(portfolioSvc),
		Visitor:   handlers.NewVisitorHandler(visitorSvc),
		WS:        handlers.NewWSHandler(chatSvc),
	})

	logger.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
