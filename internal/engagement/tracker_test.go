package engagement

import (
	"testing"
	"time"

	"glocalnews/internal/model"

	"github.com/go-playground/assert/v2"
)

type memoryInteractionStore struct {
	events []model.InteractionEvent
	nextID int64
}

func (m *memoryInteractionStore) Record(event *model.InteractionEvent) (bool, error) {
	if model.ToggleableKind(event.Kind) {
		for _, e := range m.events {
			if e.UserID == event.UserID && e.ArticleID == event.ArticleID && e.Kind == event.Kind {
				return false, nil
			}
		}
	}

	m.nextID++
	event.ID = m.nextID
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m.events = append(m.events, *event)
	return true, nil
}

func (m *memoryInteractionStore) Remove(userID string, articleID int64, kind string) error {
	kept := m.events[:0]
	for _, e := range m.events {
		if e.UserID == userID && e.ArticleID == articleID && e.Kind == kind {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

func (m *memoryInteractionStore) Counts(articleID int64) (map[string]int, error) {
	counts := make(map[string]int)
	for _, e := range m.events {
		if e.ArticleID == articleID {
			counts[e.Kind]++
		}
	}
	return counts, nil
}

func (m *memoryInteractionStore) ArticleKindCountsSince(since time.Time) ([]model.ArticleKindCount, error) {
	type key struct {
		article int64
		kind    string
	}
	grouped := make(map[key]int)
	for _, e := range m.events {
		if !e.CreatedAt.Before(since) {
			grouped[key{e.ArticleID, e.Kind}]++
		}
	}

	var counts []model.ArticleKindCount
	for k, count := range grouped {
		counts = append(counts, model.ArticleKindCount{
			ArticleID: k.article,
			Title:     "article",
			Category:  categoryFor(k.article),
			Kind:      k.kind,
			Count:     count,
		})
	}
	return counts, nil
}

func categoryFor(articleID int64) string {
	if articleID%2 == 0 {
		return "sports"
	}
	return "technology"
}

func (m *memoryInteractionStore) HourCountsSince(since time.Time) ([]model.HourCount, error) {
	counts := make(map[int]int)
	for _, e := range m.events {
		if !e.CreatedAt.Before(since) {
			counts[e.CreatedAt.Hour()]++
		}
	}

	var hours []model.HourCount
	for hour, count := range counts {
		hours = append(hours, model.HourCount{Hour: hour, Count: count})
	}
	return hours, nil
}

type scoreRecorder struct {
	scores map[int64]int
}

func newScoreRecorder() *scoreRecorder {
	return &scoreRecorder{scores: make(map[int64]int)}
}

func (s *scoreRecorder) UpdateEngagementScore(id int64, score int) error {
	s.scores[id] = score
	return nil
}

func newTestTracker() (*Tracker, *memoryInteractionStore, *scoreRecorder) {
	store := &memoryInteractionStore{}
	articles := newScoreRecorder()
	return NewTracker(store, articles, DefaultWeights()), store, articles
}

func event(user string, article int64, kind string) *model.InteractionEvent {
	return &model.InteractionEvent{UserID: user, ArticleID: article, Kind: kind}
}

func TestRecord_LikeRaisesScoreByThree(t *testing.T) {
	tracker, _, articles := newTestTracker()

	err := tracker.Record(event("u1", 10, model.InteractionLike))
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, articles.scores[10])

	err = tracker.Remove("u1", 10, model.InteractionLike)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, articles.scores[10])
}

func TestRecord_LikeThenBookmark(t *testing.T) {
	tracker, _, articles := newTestTracker()

	tracker.Record(event("u1", 10, model.InteractionLike))
	assert.Equal(t, 3, articles.scores[10])

	tracker.Record(event("u1", 10, model.InteractionBookmark))
	assert.Equal(t, 5, articles.scores[10])
}

func TestRecord_ToggleableKindIsIdempotent(t *testing.T) {
	tracker, store, articles := newTestTracker()

	tracker.Record(event("u1", 10, model.InteractionLike))
	tracker.Record(event("u1", 10, model.InteractionLike))

	assert.Equal(t, 1, len(store.events))
	assert.Equal(t, 3, articles.scores[10])
}

func TestRecord_ViewsAccumulate(t *testing.T) {
	tracker, store, articles := newTestTracker()

	tracker.Record(event("u1", 10, model.InteractionView))
	tracker.Record(event("u1", 10, model.InteractionView))

	assert.Equal(t, 2, len(store.events))
	assert.Equal(t, 2, articles.scores[10])
}

func TestRecord_UnknownKindRejected(t *testing.T) {
	tracker, _, _ := newTestTracker()

	err := tracker.Record(event("u1", 10, "applause"))
	assert.NotEqual(t, nil, err)
}

func TestRemove_NonToggleableKindRejected(t *testing.T) {
	tracker, _, _ := newTestTracker()

	err := tracker.Remove("u1", 10, model.InteractionView)
	assert.NotEqual(t, nil, err)
}

func TestScore_WeightedAggregate(t *testing.T) {
	tracker, _, _ := newTestTracker()

	tracker.Record(event("u1", 10, model.InteractionView))
	tracker.Record(event("u2", 10, model.InteractionView))
	tracker.Record(event("u1", 10, model.InteractionLike))
	tracker.Record(event("u1", 10, model.InteractionShare))
	tracker.Record(event("u1", 10, model.InteractionComment))

	analytics, err := tracker.Score(10)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, analytics.Views)
	assert.Equal(t, 1, analytics.Likes)
	// 2*1 + 1*3 + 1*5 + 1*4
	assert.Equal(t, 14, analytics.Score)
}

func TestTrends_RanksByWeightedVolume(t *testing.T) {
	tracker, _, _ := newTestTracker()

	// Article 1 (technology): one share = 5.
	tracker.Record(event("u1", 1, model.InteractionShare))
	// Article 2 (sports): three views = 3.
	tracker.Record(event("u1", 2, model.InteractionView))
	tracker.Record(event("u2", 2, model.InteractionView))
	tracker.Record(event("u3", 2, model.InteractionView))

	report, err := tracker.Trends(time.Hour)
	assert.Equal(t, nil, err)

	assert.Equal(t, 2, len(report.TopArticles))
	assert.Equal(t, int64(1), report.TopArticles[0].ArticleID)
	assert.Equal(t, 5, report.TopArticles[0].Score)
	assert.Equal(t, int64(2), report.TopArticles[1].ArticleID)
	assert.Equal(t, 3, report.TopArticles[1].Score)

	assert.Equal(t, "technology", report.TopCategories[0].Category)
	assert.Equal(t, "sports", report.TopCategories[1].Category)

	assert.Equal(t, true, len(report.PeakHours) >= 1)
}

func TestTrends_ExcludesEventsOutsideWindow(t *testing.T) {
	tracker, store, _ := newTestTracker()

	old := &model.InteractionEvent{
		UserID: "u1", ArticleID: 1, Kind: model.InteractionView,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	store.Record(old)
	tracker.Record(event("u2", 2, model.InteractionView))

	report, err := tracker.Trends(time.Hour)
	assert.Equal(t, nil, err)

	assert.Equal(t, 1, len(report.TopArticles))
	assert.Equal(t, int64(2), report.TopArticles[0].ArticleID)
}

func TestWeightsFromEnv_Override(t *testing.T) {
	t.Setenv("ENGAGEMENT_WEIGHT_LIKE", "7")

	w := WeightsFromEnv()
	assert.Equal(t, 7, w.Like)
	assert.Equal(t, 1, w.View)
}
