package bootstrap

import (
	"context"
	"log"

	"ai-docflow-be/internal/config"
	"ai-docflow-be/internal/controller"
	"ai-docflow-be/internal/flow"
	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/internal/pkg/mailer"
	"ai-docflow-be/internal/repository/unitofwork"
	"ai-docflow-be/internal/service"
	"ai-docflow-be/pkg/agent"
	"ai-docflow-be/pkg/embedding"
	"ai-docflow-be/pkg/ingestion"
	"ai-docflow-be/pkg/llm/factory"
	"ai-docflow-be/pkg/loader"
	"ai-docflow-be/pkg/splitter"
	"ai-docflow-be/pkg/vectorindex"

	pkgNats "ai-docflow-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const sessionLifecycleTopic = "session.lifecycle"

type Container struct {
	FlowController controller.IFlowController

	// Background services, run by main.go
	ConsumerService service.IConsumerService

	// Exposed for cmd/migrate
	VectorIndex vectorindex.Gateway
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Ingestion pipeline and vector index
	registry := loader.NewRegistry(cfg.Ingest.ExtractorBaseURL)
	split := splitter.NewRecursiveSplitter(splitter.DefaultChunkSize, splitter.DefaultChunkOverlap)
	pipeline := ingestion.NewPipeline(registry, split, sysLogger)
	index := vectorindex.NewPgVectorGateway(db, embeddingProvider, sysLogger)

	// 6. Agents
	invoker := agent.NewLLMInvoker(llmProvider, sysLogger)
	statusAgent := agent.NewStatusAgent(service.NewSessionStatusFetcher(uowFactory), invoker, sysLogger)
	queryAgent := agent.NewQueryAgent(index, invoker, rdb, sysLogger)
	analysisAgent := agent.NewAnalysisAgent(invoker, sysLogger)

	// 7. Services
	publisherService := service.NewPublisherService(sessionLifecycleTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		sessionLifecycleTopic,
		sysLogger,
		natsPub,
		emailService,
		cfg.Ingest.AlertEmail,
	)

	flowService := service.NewFlowService(
		flow.NewRouter(),
		uowFactory,
		pipeline,
		index,
		statusAgent,
		queryAgent,
		analysisAgent,
		publisherService,
		sysLogger,
		cfg.Ingest.DocsDir,
	)

	// 8. Controllers
	flowController := controller.NewFlowController(flowService)

	return &Container{
		FlowController:  flowController,
		ConsumerService: consumerService,
		VectorIndex:     index,
	}
}
