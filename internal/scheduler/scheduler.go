// Package scheduler drives the periodic fetch, normalize, store and
// summarize cycle across all active sources.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"glocalnews/internal/model"
	"glocalnews/internal/normalize"
	"glocalnews/internal/repository"
	"glocalnews/internal/summarizer"
	"glocalnews/pkg/news"

	"golang.org/x/sync/semaphore"
)

const (
	defaultParallelism = 5
	defaultTickTimeout = 5 * time.Minute
)

type SourceStore interface {
	ListActive() ([]model.Source, error)
	MarkFetched(id int64, at time.Time) error
}

type ArticleStore interface {
	Save(article *model.Article) error
}

type Summarizer interface {
	SummarizeBatch(ctx context.Context, articles []model.Article, opts summarizer.Options)
}

// Publisher receives every batch of newly stored articles.
type Publisher interface {
	Publish(articles []model.Article)
}

// Report aggregates the counters of one scheduler run. Per-source
// failures land here instead of aborting the run.
type Report struct {
	Sources    int
	Skipped    int
	Fetched    int
	Stored     int
	Duplicates int
	Rejected   int
	Errors     int
	Elapsed    time.Duration
}

type Scheduler struct {
	sources     SourceStore
	articles    ArticleStore
	fetchers    map[string]news.Fetcher
	normalizer  *normalize.Normalizer
	summarizer  Summarizer
	publisher   Publisher
	parallelism int64
	tickTimeout time.Duration
	running     atomic.Bool
	now         func() time.Time
}

func New(sources SourceStore, articles ArticleStore, fetchers map[string]news.Fetcher, normalizer *normalize.Normalizer) *Scheduler {
	return &Scheduler{
		sources:     sources,
		articles:    articles,
		fetchers:    fetchers,
		normalizer:  normalizer,
		parallelism: defaultParallelism,
		tickTimeout: defaultTickTimeout,
		now:         time.Now,
	}
}

// WithSummarizer attaches best-effort summarization of stored articles.
func (s *Scheduler) WithSummarizer(sum Summarizer) *Scheduler {
	s.summarizer = sum
	return s
}

// WithPublisher attaches a live distributor for stored articles.
func (s *Scheduler) WithPublisher(pub Publisher) *Scheduler {
	s.publisher = pub
	return s
}

// Run executes one tick. A tick that arrives while another run is in
// progress is skipped, not queued: the second return value reports
// whether the run actually happened.
func (s *Scheduler) Run(ctx context.Context) (*Report, bool) {
	return s.run(ctx, false)
}

// ForceRun bypasses the per-source interval check but not the
// non-overlap guarantee.
func (s *Scheduler) ForceRun(ctx context.Context) (*Report, bool) {
	return s.run(ctx, true)
}

func (s *Scheduler) run(ctx context.Context, force bool) (*Report, bool) {
	if !s.running.CompareAndSwap(false, true) {
		slog.Info("aggregation run already in progress, skipping tick")
		return nil, false
	}
	defer s.running.Store(false)

	started := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.tickTimeout)
	defer cancel()

	report := &Report{}

	sources, err := s.sources.ListActive()
	if err != nil {
		slog.Error("error listing active sources", "error", err)
		report.Errors++
		report.Elapsed = s.now().Sub(started)
		return report, true
	}
	report.Sources = len(sources)

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(s.parallelism)

	for _, source := range sources {
		if !force && !source.Due(s.now()) {
			report.Skipped++
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)
		go func(src model.Source) {
			defer wg.Done()
			defer sem.Release(1)

			partial := s.processSource(ctx, src)

			mu.Lock()
			report.Fetched += partial.Fetched
			report.Stored += partial.Stored
			report.Duplicates += partial.Duplicates
			report.Rejected += partial.Rejected
			report.Errors += partial.Errors
			mu.Unlock()
		}(source)
	}

	wg.Wait()
	report.Elapsed = s.now().Sub(started)

	slog.Info("aggregation run complete",
		"sources", report.Sources, "skipped", report.Skipped,
		"fetched", report.Fetched, "stored", report.Stored,
		"duplicates", report.Duplicates, "rejected", report.Rejected,
		"errors", report.Errors, "elapsed", report.Elapsed.String())

	return report, true
}

func (s *Scheduler) processSource(ctx context.Context, source model.Source) Report {
	var partial Report

	fetcher, ok := s.fetchers[source.Kind]
	if !ok {
		slog.Error("no fetcher for source kind", "source", source.Name, "kind", source.Kind)
		partial.Errors++
		return partial
	}

	raws, err := fetcher.Fetch(ctx, source.Endpoint)
	if err != nil {
		logFetchFailure(source, err)
		partial.Errors++
		return partial
	}
	partial.Fetched = len(raws)

	// The fetch succeeded; advance the timestamp now so a later crash
	// does not re-run this source early, while a failed fetch above
	// leaves it due for the next tick.
	if err := s.sources.MarkFetched(source.ID, s.now()); err != nil {
		slog.Error("error marking source fetched", "source", source.Name, "error", err)
		partial.Errors++
	}

	var stored []model.Article
	for _, raw := range raws {
		article, err := s.normalizer.Normalize(raw, source)
		if err != nil {
			var vErr *normalize.ValidationError
			if errors.As(err, &vErr) {
				slog.Info("article dropped", "source", source.Name, "reason", vErr.Reason)
				partial.Rejected++
				continue
			}
			slog.Error("error normalizing article", "source", source.Name, "error", err)
			partial.Errors++
			continue
		}

		err = s.articles.Save(article)
		if errors.Is(err, repository.ErrDuplicateArticle) {
			partial.Duplicates++
			continue
		}
		if err != nil {
			slog.Error("error saving article", "source", source.Name, "url", article.URL, "error", err)
			partial.Errors++
			continue
		}

		partial.Stored++
		stored = append(stored, *article)
	}

	if len(stored) == 0 {
		return partial
	}

	if s.publisher != nil {
		s.publisher.Publish(stored)
	}
	if s.summarizer != nil {
		s.summarizer.SummarizeBatch(ctx, stored, summarizer.DefaultOptions())
	}

	return partial
}

func logFetchFailure(source model.Source, err error) {
	var fetchErr *news.FetchError
	if errors.As(err, &fetchErr) && !fetchErr.Transient {
		slog.Error("permanent fetch failure, source needs attention",
			"source", source.Name, "error", err)
		return
	}
	slog.Warn("fetch failed, will retry next tick", "source", source.Name, "error", err)
}

// Start runs ticks on the interval until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Run(ctx)
		}
	}
}
