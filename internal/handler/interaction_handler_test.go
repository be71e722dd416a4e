package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"glocalnews/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeTracker struct {
	recorded []model.InteractionEvent
	removed  []string
	score    *model.EngagementAnalytics
	report   *model.TrendReport
	err      error
}

func (f *fakeTracker) Record(event *model.InteractionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, *event)
	return nil
}

func (f *fakeTracker) Remove(userID string, articleID int64, kind string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, kind)
	return nil
}

func (f *fakeTracker) Score(articleID int64) (*model.EngagementAnalytics, error) {
	return f.score, f.err
}

func (f *fakeTracker) Trends(window time.Duration) (*model.TrendReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.report != nil {
		return f.report, nil
	}
	return &model.TrendReport{Window: window}, nil
}

func newInteractionRouter(tracker EngagementTracker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewInteractionHandler(tracker)
	r.POST("/interactions", h.PostInteraction)
	r.DELETE("/interactions", h.DeleteInteraction)
	r.GET("/articles/:id/engagement", h.GetEngagement)
	r.GET("/trends", h.GetTrends)
	return r
}

func TestPostInteraction_Recorded(t *testing.T) {
	tracker := &fakeTracker{}
	r := newInteractionRouter(tracker)

	body := `{"user_id": "u1", "article_id": 5, "kind": "like"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, len(tracker.recorded))
	assert.Equal(t, "like", tracker.recorded[0].Kind)
	assert.Equal(t, int64(5), tracker.recorded[0].ArticleID)
}

func TestPostInteraction_UnknownKind(t *testing.T) {
	tracker := &fakeTracker{}
	r := newInteractionRouter(tracker)

	body := `{"user_id": "u1", "article_id": 5, "kind": "clap"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, len(tracker.recorded))
}

func TestPostInteraction_MissingFields(t *testing.T) {
	r := newInteractionRouter(&fakeTracker{})

	body := `{"kind": "like"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostInteraction_DBError(t *testing.T) {
	tracker := &fakeTracker{err: errors.New("DB down")}
	r := newInteractionRouter(tracker)

	body := `{"user_id": "u1", "article_id": 5, "kind": "view"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteInteraction_Removed(t *testing.T) {
	tracker := &fakeTracker{}
	r := newInteractionRouter(tracker)

	body := `{"user_id": "u1", "article_id": 5, "kind": "bookmark"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"bookmark"}, tracker.removed)
}

func TestDeleteInteraction_NonToggleableKind(t *testing.T) {
	tracker := &fakeTracker{}
	r := newInteractionRouter(tracker)

	body := `{"user_id": "u1", "article_id": 5, "kind": "view"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/interactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, len(tracker.removed))
}

func TestGetEngagement_ReturnsAnalytics(t *testing.T) {
	tracker := &fakeTracker{
		score: &model.EngagementAnalytics{
			ArticleID: 5,
			Views:     3,
			Likes:     2,
			Score:     9,
		},
	}
	r := newInteractionRouter(tracker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/articles/5/engagement", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res EngagementResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(5), res.ArticleID)
	assert.Equal(t, 3, res.Views)
	assert.Equal(t, 9, res.Score)
}

func TestGetEngagement_InvalidID(t *testing.T) {
	r := newInteractionRouter(&fakeTracker{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/articles/abc/engagement", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTrends_ReturnsReport(t *testing.T) {
	tracker := &fakeTracker{
		report: &model.TrendReport{
			Window: 24 * time.Hour,
			TopArticles: []model.TrendingArticle{
				{ArticleID: 1, Title: "Top story", Category: "sports", Score: 15},
			},
			TopCategories: []model.CategoryTrend{{Category: "sports", Score: 15}},
			PeakHours:     []model.HourCount{{Hour: 9, Count: 4}},
		},
	}
	r := newInteractionRouter(tracker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/trends", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res TrendsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 24, res.WindowHours)
	assert.Equal(t, 1, len(res.TopArticles))
	assert.Equal(t, "Top story", res.TopArticles[0].Title)
	assert.Equal(t, 9, res.PeakHours[0].Hour)
}

func TestGetTrends_CustomWindow(t *testing.T) {
	tracker := &fakeTracker{}
	r := newInteractionRouter(tracker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/trends?hours=6", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res TrendsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 6, res.WindowHours)
}
