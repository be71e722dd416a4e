package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"glocalnews/db"
	"glocalnews/internal/engagement"
	"glocalnews/internal/handler"
	"glocalnews/internal/realtime"
	"glocalnews/internal/repository"
	"glocalnews/internal/summarizer"
	"glocalnews/pkg/llm"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer database.Close()

	ctx := context.Background()

	redisClient, err := db.ConnectRedis(ctx)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	articleRepo := repository.NewArticleRepository(database)
	summaryRepo := repository.NewSummaryRepository(database)
	sourceRepo := repository.NewSourceRepository(database)
	interactionRepo := repository.NewInteractionRepository(database)

	engine := summarizer.NewEngine(buildProviders(), summarizer.NewRedisCache(redisClient), summaryRepo)

	tracker := engagement.NewTracker(interactionRepo, articleRepo, engagement.WeightsFromEnv())

	distributor := realtime.NewDistributor()
	defer distributor.Close()

	bridge := realtime.NewBridge(redisClient, distributor)
	go bridge.Run(ctx)

	articleHandler := handler.NewArticleHandler(articleRepo, summaryRepo, sourceRepo, engine)
	interactionHandler := handler.NewInteractionHandler(tracker)
	streamHandler := handler.NewStreamHandler(distributor)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/articles/latest", articleHandler.GetLatest)
	r.GET("/articles/trending", articleHandler.GetTrending)
	r.GET("/articles/search", articleHandler.Search)
	r.GET("/articles/:id", articleHandler.GetArticle)
	r.GET("/articles/:id/engagement", interactionHandler.GetEngagement)
	r.POST("/interactions", interactionHandler.PostInteraction)
	r.DELETE("/interactions", interactionHandler.DeleteInteraction)
	r.GET("/trends", interactionHandler.GetTrends)
	r.GET("/stream", streamHandler.Stream)
	r.GET("/sources", articleHandler.GetSources)
	r.GET("/health", articleHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// buildProviders assembles the summarization chain from whatever API keys are
// configured, in priority order. An empty chain is fine; the engine falls
// back to rule-based summaries.
func buildProviders() []llm.Provider {
	var providers []llm.Provider

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		providers = append(providers, llm.NewOpenAIProvider(key))
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		providers = append(providers, llm.NewAnthropicProvider(key))
	}
	if endpoint := os.Getenv("LLM_GATEWAY_URL"); endpoint != "" {
		providers = append(providers, llm.NewGatewayProvider(endpoint, os.Getenv("LLM_GATEWAY_MODEL"), os.Getenv("LLM_GATEWAY_API_KEY")))
	}

	if len(providers) == 0 {
		slog.Warn("no LLM API keys configured, using rule-based summaries only")
	}

	return providers
}
