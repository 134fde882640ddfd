package bootstrap

import (
	"context"
	"log"

	"github.com/SakshamA8/caseclosed/internal/config"
	"github.com/SakshamA8/caseclosed/internal/controller"
	"github.com/SakshamA8/caseclosed/internal/pkg/logger"
	"github.com/SakshamA8/caseclosed/internal/repository/contract"
	"github.com/SakshamA8/caseclosed/internal/repository/memory"
	"github.com/SakshamA8/caseclosed/internal/repository/redisstore"
	"github.com/SakshamA8/caseclosed/internal/service"
	"github.com/SakshamA8/caseclosed/pkg/courtlistener"
	"github.com/SakshamA8/caseclosed/pkg/llm/factory"

	"github.com/redis/go-redis/v9"
)

type Container struct {
	ResearchController controller.IResearchController
	Logger             logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. LLM Provider
	apiKey, baseURL := cfg.Ai.ProviderCredentials()
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		apiKey,
		baseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3. Session Store
	var sessionStore contract.SessionStore
	if cfg.App.SessionStore == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to parse Redis URL: %v", err)
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionStore = redisstore.NewSessionRepository(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionStore = memory.NewSessionRepository()
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 4. Case-Search Collaborator
	searchClient := courtlistener.NewClient(cfg.Search.BaseURL, cfg.Search.Token, cfg.Search.PageSize)

	// 5. Services
	researchService := service.NewResearchService(
		sessionStore,
		llmProvider,
		searchClient,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		ResearchController: controller.NewResearchController(researchService),
		Logger:             sysLogger,
	}
}
