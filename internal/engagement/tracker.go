// Package engagement aggregates user interactions into per-article scores
// and time-windowed trend statistics.
package engagement

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"glocalnews/internal/model"
)

// Weights are the per-kind multipliers feeding the engagement score.
// Product-tuning values, overridable through the environment.
type Weights struct {
	View     int
	Like     int
	Share    int
	Bookmark int
	Comment  int
	ReadMore int
}

func DefaultWeights() Weights {
	return Weights{View: 1, Like: 3, Share: 5, Bookmark: 2, Comment: 4, ReadMore: 2}
}

// WeightsFromEnv reads ENGAGEMENT_WEIGHT_<KIND> overrides.
func WeightsFromEnv() Weights {
	w := DefaultWeights()
	overrides := map[string]*int{
		"ENGAGEMENT_WEIGHT_VIEW":      &w.View,
		"ENGAGEMENT_WEIGHT_LIKE":      &w.Like,
		"ENGAGEMENT_WEIGHT_SHARE":     &w.Share,
		"ENGAGEMENT_WEIGHT_BOOKMARK":  &w.Bookmark,
		"ENGAGEMENT_WEIGHT_COMMENT":   &w.Comment,
		"ENGAGEMENT_WEIGHT_READ_MORE": &w.ReadMore,
	}
	for key, target := range overrides {
		if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
			*target = v
		}
	}
	return w
}

func (w Weights) forKind(kind string) int {
	switch kind {
	case model.InteractionView:
		return w.View
	case model.InteractionLike:
		return w.Like
	case model.InteractionShare:
		return w.Share
	case model.InteractionBookmark:
		return w.Bookmark
	case model.InteractionComment:
		return w.Comment
	case model.InteractionReadMore:
		return w.ReadMore
	}
	return 0
}

type InteractionStore interface {
	Record(event *model.InteractionEvent) (bool, error)
	Remove(userID string, articleID int64, kind string) error
	Counts(articleID int64) (map[string]int, error)
	ArticleKindCountsSince(since time.Time) ([]model.ArticleKindCount, error)
	HourCountsSince(since time.Time) ([]model.HourCount, error)
}

type ArticleScoreStore interface {
	UpdateEngagementScore(id int64, score int) error
}

type Tracker struct {
	store    InteractionStore
	articles ArticleScoreStore
	weights  Weights
	now      func() time.Time
}

func NewTracker(store InteractionStore, articles ArticleScoreStore, weights Weights) *Tracker {
	return &Tracker{store: store, articles: articles, weights: weights, now: time.Now}
}

// Record appends an interaction and refreshes the article's denormalized
// engagement score. Re-recording an active like or bookmark is a no-op.
func (t *Tracker) Record(event *model.InteractionEvent) error {
	if !model.ValidKind(event.Kind) {
		return fmt.Errorf("unknown interaction kind %q", event.Kind)
	}

	inserted, err := t.store.Record(event)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	return t.refreshScore(event.ArticleID)
}

// Remove deletes the active row of a toggleable kind and refreshes the
// article's score.
func (t *Tracker) Remove(userID string, articleID int64, kind string) error {
	if !model.ToggleableKind(kind) {
		return fmt.Errorf("interaction kind %q cannot be removed", kind)
	}

	if err := t.store.Remove(userID, articleID, kind); err != nil {
		return err
	}

	return t.refreshScore(articleID)
}

// Score aggregates per-kind counts into the weighted engagement score.
func (t *Tracker) Score(articleID int64) (*model.EngagementAnalytics, error) {
	counts, err := t.store.Counts(articleID)
	if err != nil {
		return nil, err
	}

	analytics := &model.EngagementAnalytics{
		ArticleID: articleID,
		Views:     counts[model.InteractionView],
		Likes:     counts[model.InteractionLike],
		Shares:    counts[model.InteractionShare],
		Bookmarks: counts[model.InteractionBookmark],
		Comments:  counts[model.InteractionComment],
		ReadMores: counts[model.InteractionReadMore],
	}

	for kind, count := range counts {
		analytics.Score += count * t.weights.forKind(kind)
	}

	return analytics, nil
}

// Trends ranks articles and categories by weighted interaction volume
// inside the window and reports the busiest hours.
func (t *Tracker) Trends(window time.Duration) (*model.TrendReport, error) {
	since := t.now().Add(-window)

	counts, err := t.store.ArticleKindCountsSince(since)
	if err != nil {
		return nil, err
	}

	articleScores := make(map[int64]*model.TrendingArticle)
	categoryScores := make(map[string]int)

	for _, c := range counts {
		weighted := c.Count * t.weights.forKind(c.Kind)

		entry, ok := articleScores[c.ArticleID]
		if !ok {
			entry = &model.TrendingArticle{ArticleID: c.ArticleID, Title: c.Title, Category: c.Category}
			articleScores[c.ArticleID] = entry
		}
		entry.Score += weighted
		categoryScores[c.Category] += weighted
	}

	report := &model.TrendReport{Window: window}

	for _, entry := range articleScores {
		report.TopArticles = append(report.TopArticles, *entry)
	}
	sort.Slice(report.TopArticles, func(a, b int) bool {
		if report.TopArticles[a].Score != report.TopArticles[b].Score {
			return report.TopArticles[a].Score > report.TopArticles[b].Score
		}
		return report.TopArticles[a].ArticleID < report.TopArticles[b].ArticleID
	})

	for category, score := range categoryScores {
		report.TopCategories = append(report.TopCategories, model.CategoryTrend{Category: category, Score: score})
	}
	sort.Slice(report.TopCategories, func(a, b int) bool {
		if report.TopCategories[a].Score != report.TopCategories[b].Score {
			return report.TopCategories[a].Score > report.TopCategories[b].Score
		}
		return report.TopCategories[a].Category < report.TopCategories[b].Category
	})

	hours, err := t.store.HourCountsSince(since)
	if err != nil {
		return nil, err
	}
	report.PeakHours = hours

	return report, nil
}

func (t *Tracker) refreshScore(articleID int64) error {
	analytics, err := t.Score(articleID)
	if err != nil {
		return err
	}
	return t.articles.UpdateEngagementScore(articleID, analytics.Score)
}
