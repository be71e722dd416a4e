package model

import "time"

const (
	InteractionView     = "view"
	InteractionLike     = "like"
	InteractionShare    = "share"
	InteractionBookmark = "bookmark"
	InteractionComment  = "comment"
	InteractionReadMore = "read_more"
)

// ToggleableKind reports whether at most one active row per (user, article)
// is allowed for the kind. Re-recording a toggleable kind is a no-op and an
// explicit remove deletes the row.
func ToggleableKind(kind string) bool {
	return kind == InteractionLike || kind == InteractionBookmark
}

// ValidKind reports whether kind is one of the recognized interaction kinds.
func ValidKind(kind string) bool {
	switch kind {
	case InteractionView, InteractionLike, InteractionShare,
		InteractionBookmark, InteractionComment, InteractionReadMore:
		return true
	}
	return false
}

type InteractionEvent struct {
	ID        int64
	UserID    string
	ArticleID int64
	Kind      string
	Payload   map[string]any
	CreatedAt time.Time
}

type EngagementAnalytics struct {
	ArticleID int64
	Views     int
	Likes     int
	Shares    int
	Bookmarks int
	Comments  int
	ReadMores int
	Score     int
}

// ArticleKindCount is one (article, kind) bucket from the interaction log,
// joined with enough article fields to rank trends.
type ArticleKindCount struct {
	ArticleID int64
	Title     string
	Category  string
	Kind      string
	Count     int
}

type HourCount struct {
	Hour  int
	Count int
}

type TrendingArticle struct {
	ArticleID int64
	Title     string
	Category  string
	Score     int
}

type CategoryTrend struct {
	Category string
	Score    int
}

type TrendReport struct {
	Window        time.Duration
	TopArticles   []TrendingArticle
	TopCategories []CategoryTrend
	PeakHours     []HourCount
}
