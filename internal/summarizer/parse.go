package summarizer

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"glocalnews/internal/model"
)

const (
	// structuredConfidence is the floor for fully parsed provider output.
	structuredConfidence = 0.85
	// freeTextConfidence applies when the response could not be parsed and
	// the whole text is taken as the summary.
	freeTextConfidence = 0.7
)

type structuredResponse struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	Sentiment   string   `json:"sentiment"`
	Confidence  float64  `json:"confidence"`
	Tags        []string `json:"tags"`
	ReadingTime int      `json:"reading_time"`
}

// parseResponse maps a provider response into a Summary, tolerating both
// well-formed structured output and plain text.
func parseResponse(content string, article model.Article, opts Options, provider string, now time.Time) *model.Summary {
	cleaned := cleanJSONResponse(content)

	var parsed structuredResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil && strings.TrimSpace(parsed.Summary) != "" {
		summary := &model.Summary{
			ArticleID:   article.ID,
			Text:        truncate(strings.TrimSpace(parsed.Summary), opts.MaxLength),
			Sentiment:   validSentiment(parsed.Sentiment),
			Confidence:  clampConfidence(parsed.Confidence, structuredConfidence),
			ReadingTime: parsed.ReadingTime,
			Provider:    provider,
			GeneratedAt: now,
		}

		if opts.IncludeKeyPoints {
			summary.KeyPoints = parsed.KeyPoints
		}
		if opts.IncludeTags {
			summary.Tags = parsed.Tags
		}
		if !opts.IncludeSentiment {
			summary.Sentiment = model.SentimentNeutral
		}
		if summary.ReadingTime < 1 {
			summary.ReadingTime = readingTime(article.Title + " " + article.Description)
		}

		return summary
	}

	// Free text: the whole response is the summary.
	return &model.Summary{
		ArticleID:   article.ID,
		Text:        truncate(strings.TrimSpace(content), opts.MaxLength),
		Sentiment:   model.SentimentNeutral,
		Confidence:  freeTextConfidence,
		ReadingTime: readingTime(article.Title + " " + article.Description),
		Provider:    provider,
		GeneratedAt: now,
	}
}

// cleanJSONResponse peels code fences and surrounding prose off a model
// response so the JSON object inside can be unmarshalled.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

func validSentiment(s string) string {
	switch s {
	case model.SentimentPositive, model.SentimentNegative, model.SentimentNeutral:
		return s
	}
	return model.SentimentNeutral
}

func clampConfidence(c, floor float64) float64 {
	if c < floor {
		return floor
	}
	if c > 1.0 {
		return 1.0
	}
	return c
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}

	cut := max
	if max > 3 {
		cut = max - 3
	}
	// Never split a multi-byte rune.
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	if max <= 3 {
		return s[:cut]
	}
	return s[:cut] + "..."
}

func readingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
