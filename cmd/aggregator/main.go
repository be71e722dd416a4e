package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"glocalnews/db"
	"glocalnews/internal/model"
	"glocalnews/internal/normalize"
	"glocalnews/internal/realtime"
	"glocalnews/internal/repository"
	"glocalnews/internal/scheduler"
	"glocalnews/internal/summarizer"
	"glocalnews/pkg/llm"
	"glocalnews/pkg/news"

	"github.com/joho/godotenv"
)

const defaultIntervalMinutes = 15

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := db.ConnectRedis(ctx)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	sourceRepo := repository.NewSourceRepository(database)
	articleRepo := repository.NewArticleRepository(database)
	summaryRepo := repository.NewSummaryRepository(database)

	engine := summarizer.NewEngine(buildProviders(), summarizer.NewRedisCache(redisClient), summaryRepo)

	normalizer := normalize.New(loadGazetteer())

	sched := scheduler.New(sourceRepo, articleRepo, buildFetchers(), normalizer).
		WithSummarizer(engine).
		WithPublisher(realtime.NewChannelPublisher(redisClient))

	interval := intervalFromEnv()
	slog.Info("aggregator starting", "interval", interval)

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go func() {
		for range reload {
			slog.Info("forcing aggregation run")
			if report, ran := sched.ForceRun(ctx); ran {
				slog.Info("forced run complete", "stored", report.Stored, "errors", report.Errors)
			}
		}
	}()

	if report, ran := sched.Run(ctx); ran {
		slog.Info("initial run complete", "stored", report.Stored, "errors", report.Errors)
	}

	sched.Start(ctx, interval)

	slog.Info("aggregator stopped")
}

func buildFetchers() map[string]news.Fetcher {
	fetchers := map[string]news.Fetcher{
		model.SourceKindFeed:     news.NewFeedFetcher(),
		model.SourceKindExternal: news.NewExternalFetcher(nil),
	}

	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		fetchers[model.SourceKindAPI] = news.NewFinnhubFetcher(key)
	} else if key := os.Getenv("NEWS_API_KEY"); key != "" {
		fetchers[model.SourceKindAPI] = news.NewAPIFetcher(key)
	} else {
		slog.Warn("no news API key configured, api sources will be skipped")
	}

	return fetchers
}

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

	return providers
}

// loadGazetteer reads the location keyword list from GAZETTEER_FILE. Without
// one, articles simply carry no location tags.
func loadGazetteer() []normalize.Place {
	path := os.Getenv("GAZETTEER_FILE")
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("error reading gazetteer file", "path", path, "error", err)
		return nil
	}

	var places []normalize.Place
	if err := json.Unmarshal(data, &places); err != nil {
		slog.Error("error parsing gazetteer file", "path", path, "error", err)
		return nil
	}

	slog.Info("gazetteer loaded", "path", path, "places", len(places))
	return places
}

func intervalFromEnv() time.Duration {
	raw := os.Getenv("AGGREGATION_INTERVAL_MINUTES")
	if raw == "" {
		return defaultIntervalMinutes * time.Minute
	}

	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 1 {
		slog.Warn("invalid AGGREGATION_INTERVAL_MINUTES, using default", "value", raw)
		return defaultIntervalMinutes * time.Minute
	}

	return time.Duration(minutes) * time.Minute
}
