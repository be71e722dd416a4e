package model

import "time"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SummaryMaxAge is how long a generated summary stays usable before it is
// regenerated instead of being served again.
const SummaryMaxAge = 24 * time.Hour

type Summary struct {
	ID          int64
	ArticleID   int64
	Text        string
	KeyPoints   []string
	Sentiment   string
	Confidence  float64
	ReadingTime int
	Tags        []string
	Provider    string
	GeneratedAt time.Time
}

// Stale reports whether the summary is past its freshness window.
func (s Summary) Stale(now time.Time) bool {
	return now.Sub(s.GeneratedAt) >= SummaryMaxAge
}
