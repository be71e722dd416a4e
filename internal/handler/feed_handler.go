package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"glocalnews/internal/model"
	"glocalnews/internal/summarizer"

	"github.com/gin-gonic/gin"
)

type ArticleStore interface {
	GetLatest(limit int) ([]model.Article, error)
	GetTrending(limit int) ([]model.Article, error)
	Search(query string, limit int) ([]model.Article, error)
	GetByID(id int64) (*model.Article, error)
}

type SummaryStore interface {
	GetByArticleID(articleID int64) (*model.Summary, error)
	GetByArticleIDs(articleIDs []int64) (map[int64]model.Summary, error)
}

type SourceStore interface {
	ListAll() ([]model.Source, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, article model.Article, opts summarizer.Options) (*model.Summary, error)
}

type ArticleHandler struct {
	articles   ArticleStore
	summaries  SummaryStore
	sources    SourceStore
	summarizer Summarizer
	now        func() time.Time
}

func NewArticleHandler(articles ArticleStore, summaries SummaryStore, sources SourceStore, s Summarizer) *ArticleHandler {
	return &ArticleHandler{
		articles:   articles,
		summaries:  summaries,
		sources:    sources,
		summarizer: s,
		now:        time.Now,
	}
}

func (h *ArticleHandler) GetLatest(c *gin.Context) {
	limit := getQueryLimit(c)

	articles, err := h.articles.GetLatest(limit)
	if err != nil {
		slog.Error("error fetching latest articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, h.buildFeed(c.Request.Context(), articles, limit))
}

func (h *ArticleHandler) GetTrending(c *gin.Context) {
	limit := getQueryLimit(c)

	articles, err := h.articles.GetTrending(limit)
	if err != nil {
		slog.Error("error fetching trending articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, h.buildFeed(c.Request.Context(), articles, limit))
}

func (h *ArticleHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter q"})
		return
	}

	limit := getQueryLimit(c)

	articles, err := h.articles.Search(query, limit)
	if err != nil {
		slog.Error("error searching articles", "error", err, "query", query)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, h.buildFeed(c.Request.Context(), articles, limit))
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id := c.Param("id")

	articleID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.Error("invalid article id", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	article, err := h.articles.GetByID(articleID)
	if err != nil {
		slog.Error("error fetching article", "error", err, "article_id", articleID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	summary := h.summaryFor(c.Request.Context(), *article)

	c.JSON(http.StatusOK, toArticleResponse(*article, summary))
}

func (h *ArticleHandler) GetSources(c *gin.Context) {
	sources, err := h.sources.ListAll()
	if err != nil {
		slog.Error("error fetching sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]SourceResponse, 0, len(sources))
	for _, s := range sources {
		res = append(res, toSourceResponse(s))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ArticleHandler) GetHealth(c *gin.Context) {
	_, err := h.articles.GetLatest(1)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

// buildFeed attaches a summary to every article, generating one on the spot
// for articles whose stored summary is missing or stale.
func (h *ArticleHandler) buildFeed(ctx context.Context, articles []model.Article, limit int) FeedResponse {
	var ids []int64
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	summaryMap, err := h.summaries.GetByArticleIDs(ids)
	if err != nil {
		slog.Error("error fetching summaries", "error", err)
		summaryMap = map[int64]model.Summary{}
	}

	articleRes := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		var summary *model.Summary
		if s, ok := summaryMap[a.ID]; ok && !s.Stale(h.now()) {
			summary = &s
		} else {
			summary = h.generate(ctx, a)
		}
		articleRes = append(articleRes, toArticleResponse(a, summary))
	}

	return FeedResponse{
		Articles: articleRes,
		Limit:    limit,
	}
}

func (h *ArticleHandler) summaryFor(ctx context.Context, article model.Article) *model.Summary {
	summary, err := h.summaries.GetByArticleID(article.ID)
	if err != nil {
		slog.Error("error fetching summary", "error", err, "article_id", article.ID)
		return nil
	}
	if summary != nil && !summary.Stale(h.now()) {
		return summary
	}
	return h.generate(ctx, article)
}

func (h *ArticleHandler) generate(ctx context.Context, article model.Article) *model.Summary {
	if h.summarizer == nil {
		return nil
	}

	summary, err := h.summarizer.Summarize(ctx, article, summarizer.DefaultOptions())
	if err != nil {
		slog.Error("error generating summary", "error", err, "article_id", article.ID)
		return nil
	}
	return summary
}
