package handler

import (
	"log/slog"
	"strconv"
	"time"

	"glocalnews/internal/model"

	"github.com/gin-gonic/gin"
)

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramValue := c.Query(name)

	if paramValue == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramValue)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramValue, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

type SummaryResponse struct {
	Text        string   `json:"text"`
	KeyPoints   []string `json:"key_points"`
	Sentiment   string   `json:"sentiment"`
	Confidence  float64  `json:"confidence"`
	ReadingTime int      `json:"reading_time"`
	Tags        []string `json:"tags"`
	Provider    string   `json:"provider"`
	GeneratedAt string   `json:"generated_at"`
}

type ArticleResponse struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	URL             string           `json:"url"`
	ImageURL        string           `json:"image_url,omitempty"`
	Author          string           `json:"author,omitempty"`
	Source          string           `json:"source"`
	PublishedAt     string           `json:"published_at"`
	Category        string           `json:"category"`
	City            string           `json:"city,omitempty"`
	Region          string           `json:"region,omitempty"`
	Country         string           `json:"country,omitempty"`
	RelevanceScore  float64          `json:"relevance_score"`
	EngagementScore int              `json:"engagement_score"`
	Summary         *SummaryResponse `json:"summary,omitempty"`
}

type FeedResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Limit    int               `json:"limit"`
}

type SourceResponse struct {
	ID                   int64  `json:"id"`
	Name                 string `json:"name"`
	Kind                 string `json:"kind"`
	Active               bool   `json:"active"`
	FetchIntervalMinutes int    `json:"fetch_interval_minutes"`
	LastFetchedAt        string `json:"last_fetched_at,omitempty"`
	Category             string `json:"category,omitempty"`
}

type InteractionRequest struct {
	UserID    string         `json:"user_id" binding:"required"`
	ArticleID int64          `json:"article_id" binding:"required"`
	Kind      string         `json:"kind" binding:"required"`
	Payload   map[string]any `json:"payload"`
}

type EngagementResponse struct {
	ArticleID int64 `json:"article_id"`
	Views     int   `json:"views"`
	Likes     int   `json:"likes"`
	Shares    int   `json:"shares"`
	Bookmarks int   `json:"bookmarks"`
	Comments  int   `json:"comments"`
	ReadMores int   `json:"read_mores"`
	Score     int   `json:"score"`
}

type TrendingArticleResponse struct {
	ArticleID int64  `json:"article_id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Score     int    `json:"score"`
}

type CategoryTrendResponse struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

type HourCountResponse struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type TrendsResponse struct {
	WindowHours   int                       `json:"window_hours"`
	TopArticles   []TrendingArticleResponse `json:"top_articles"`
	TopCategories []CategoryTrendResponse   `json:"top_categories"`
	PeakHours     []HourCountResponse       `json:"peak_hours"`
}

func toSummaryResponse(s *model.Summary) *SummaryResponse {
	if s == nil {
		return nil
	}
	return &SummaryResponse{
		Text:        s.Text,
		KeyPoints:   s.KeyPoints,
		Sentiment:   s.Sentiment,
		Confidence:  s.Confidence,
		ReadingTime: s.ReadingTime,
		Tags:        s.Tags,
		Provider:    s.Provider,
		GeneratedAt: s.GeneratedAt.Format(time.RFC3339),
	}
}

func toArticleResponse(a model.Article, summary *model.Summary) ArticleResponse {
	return ArticleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		URL:             a.URL,
		ImageURL:        a.ImageURL,
		Author:          a.Author,
		Source:          a.SourceName,
		PublishedAt:     a.PublishedAt.Format(time.RFC3339),
		Category:        a.Category,
		City:            a.City,
		Region:          a.Region,
		Country:         a.Country,
		RelevanceScore:  a.RelevanceScore,
		EngagementScore: a.EngagementScore,
		Summary:         toSummaryResponse(summary),
	}
}

func toSourceResponse(s model.Source) SourceResponse {
	res := SourceResponse{
		ID:                   s.ID,
		Name:                 s.Name,
		Kind:                 s.Kind,
		Active:               s.Active,
		FetchIntervalMinutes: s.FetchIntervalMinutes,
		Category:             s.Category,
	}
	if s.LastFetchedAt != nil {
		res.LastFetchedAt = s.LastFetchedAt.Format(time.RFC3339)
	}
	return res
}

func toTrendsResponse(report *model.TrendReport) TrendsResponse {
	res := TrendsResponse{
		WindowHours: int(report.Window / time.Hour),
	}
	for _, a := range report.TopArticles {
		res.TopArticles = append(res.TopArticles, TrendingArticleResponse{
			ArticleID: a.ArticleID,
			Title:     a.Title,
			Category:  a.Category,
			Score:     a.Score,
		})
	}
	for _, ct := range report.TopCategories {
		res.TopCategories = append(res.TopCategories, CategoryTrendResponse{
			Category: ct.Category,
			Score:    ct.Score,
		})
	}
	for _, h := range report.PeakHours {
		res.PeakHours = append(res.PeakHours, HourCountResponse{
			Hour:  h.Hour,
			Count: h.Count,
		})
	}
	return res
}
