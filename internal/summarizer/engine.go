// Package summarizer produces structured article summaries through an
// ordered chain of AI providers with a deterministic rule-based fallback.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"glocalnews/internal/model"
	"glocalnews/pkg/llm"

	"golang.org/x/sync/semaphore"
)

const (
	defaultMaxLength   = 300
	defaultLanguage    = "en"
	defaultMaxTokens   = 1024
	defaultTemperature = 0.3
	batchParallelism   = 4
)

type Options struct {
	MaxLength        int
	IncludeKeyPoints bool
	IncludeSentiment bool
	IncludeTags      bool
	Language         string
}

// DefaultOptions asks for the full structured summary.
func DefaultOptions() Options {
	return Options{
		MaxLength:        defaultMaxLength,
		IncludeKeyPoints: true,
		IncludeSentiment: true,
		IncludeTags:      true,
		Language:         defaultLanguage,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxLength <= 0 {
		o.MaxLength = defaultMaxLength
	}
	if o.Language == "" {
		o.Language = defaultLanguage
	}
	return o
}

// Cache holds generated summaries keyed by (article, length, language).
type Cache interface {
	Get(ctx context.Context, key string) (*model.Summary, bool)
	Set(ctx context.Context, key string, summary *model.Summary)
}

// Store persists summaries, upserting on article id.
type Store interface {
	Upsert(summary *model.Summary) error
}

type Engine struct {
	providers   []llm.Provider
	cache       Cache
	store       Store
	maxTokens   int
	temperature float64
	now         func() time.Time
}

// NewEngine builds the summarization chain. Providers are tried in the
// given order; cache and store may be nil.
func NewEngine(providers []llm.Provider, cache Cache, store Store) *Engine {
	return &Engine{
		providers:   providers,
		cache:       cache,
		store:       store,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		now:         time.Now,
	}
}

// Summarize returns a summary for the article: cached if fresh, otherwise
// generated by the first provider that answers, otherwise rule-based.
// The fallback guarantees a well-formed result for any article.
func (e *Engine) Summarize(ctx context.Context, article model.Article, opts Options) (*model.Summary, error) {
	opts = opts.withDefaults()
	key := cacheKey(article.ID, opts)

	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, key); ok && !cached.Stale(e.now()) {
			return cached, nil
		}
	}

	summary := e.generate(ctx, article, opts)

	if e.store != nil {
		if err := e.store.Upsert(summary); err != nil {
			// Summaries are regenerable; a failed write is logged, not fatal.
			slog.Error("error persisting summary", "article_id", article.ID, "error", err)
		}
	}

	if e.cache != nil {
		e.cache.Set(ctx, key, summary)
	}

	return summary, nil
}

func (e *Engine) generate(ctx context.Context, article model.Article, opts Options) *model.Summary {
	prompt := buildPrompt(article, opts)

	for _, provider := range e.providers {
		text, err := provider.Complete(ctx, prompt, e.maxTokens, e.temperature)
		if err != nil {
			slog.Warn("summary provider failed, trying next",
				"provider", provider.Name(), "article_id", article.ID, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			slog.Warn("summary provider returned empty response",
				"provider", provider.Name(), "article_id", article.ID)
			continue
		}

		return parseResponse(text, article, opts, provider.Name(), e.now())
	}

	return ruleBasedSummary(article, opts, e.now())
}

// SummarizeBatch summarizes articles concurrently under a bounded degree
// of parallelism. Providers within each article stay strictly sequential.
func (e *Engine) SummarizeBatch(ctx context.Context, articles []model.Article, opts Options) {
	sem := semaphore.NewWeighted(batchParallelism)
	var wg sync.WaitGroup

	for _, article := range articles {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(a model.Article) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := e.Summarize(ctx, a, opts); err != nil {
				slog.Error("error summarizing article", "article_id", a.ID, "error", err)
			}
		}(article)
	}

	wg.Wait()
}

func cacheKey(articleID int64, opts Options) string {
	return fmt.Sprintf("%d:%d:%s", articleID, opts.MaxLength, opts.Language)
}
