package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"glocalnews/internal/model"

	"github.com/gin-gonic/gin"
)

type EngagementTracker interface {
	Record(event *model.InteractionEvent) error
	Remove(userID string, articleID int64, kind string) error
	Score(articleID int64) (*model.EngagementAnalytics, error)
	Trends(window time.Duration) (*model.TrendReport, error)
}

type InteractionHandler struct {
	tracker EngagementTracker
}

func NewInteractionHandler(tracker EngagementTracker) *InteractionHandler {
	return &InteractionHandler{tracker: tracker}
}

func (h *InteractionHandler) PostInteraction(c *gin.Context) {
	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !model.ValidKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown interaction kind"})
		return
	}

	event := &model.InteractionEvent{
		UserID:    req.UserID,
		ArticleID: req.ArticleID,
		Kind:      req.Kind,
		Payload:   req.Payload,
	}

	if err := h.tracker.Record(event); err != nil {
		slog.Error("error recording interaction", "error", err, "article_id", req.ArticleID, "kind", req.Kind)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

func (h *InteractionHandler) DeleteInteraction(c *gin.Context) {
	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !model.ToggleableKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Interaction kind cannot be removed"})
		return
	}

	if err := h.tracker.Remove(req.UserID, req.ArticleID, req.Kind); err != nil {
		slog.Error("error removing interaction", "error", err, "article_id", req.ArticleID, "kind", req.Kind)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *InteractionHandler) GetEngagement(c *gin.Context) {
	id := c.Param("id")

	articleID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.Error("invalid article id", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	analytics, err := h.tracker.Score(articleID)
	if err != nil {
		slog.Error("error fetching engagement", "error", err, "article_id", articleID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, EngagementResponse{
		ArticleID: analytics.ArticleID,
		Views:     analytics.Views,
		Likes:     analytics.Likes,
		Shares:    analytics.Shares,
		Bookmarks: analytics.Bookmarks,
		Comments:  analytics.Comments,
		ReadMores: analytics.ReadMores,
		Score:     analytics.Score,
	})
}

func (h *InteractionHandler) GetTrends(c *gin.Context) {
	hours := getQueryInt("hours", 24, c)
	if hours < 1 {
		slog.Warn("invalid query parameter, using default", "param", "hours", "value", hours, "default", 24)
		hours = 24
	}

	report, err := h.tracker.Trends(time.Duration(hours) * time.Hour)
	if err != nil {
		slog.Error("error computing trends", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toTrendsResponse(report))
}
