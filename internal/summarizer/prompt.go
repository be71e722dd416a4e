package summarizer

import (
	"fmt"
	"strings"

	"glocalnews/internal/model"
)

const promptTemplate = `You are a news editor. Summarize the article below.

Rules:
1. The summary must be at most %d characters, in %s.
2. Stay factual: keep names, numbers, dates and places.
3. No opinion, no urgency words, no editorializing.
%s
Output as JSON only, no other text:
{
  "summary": "condensed article text",
  "key_points": ["point 1", "point 2"],
  "sentiment": "positive | negative | neutral",
  "confidence": 0.0-1.0,
  "tags": ["tag1", "tag2"],
  "reading_time": minutes as integer
}

Title: %s
Body: %s`

func buildPrompt(article model.Article, opts Options) string {
	var extras []string
	if !opts.IncludeKeyPoints {
		extras = append(extras, "4. Leave key_points empty.")
	}
	if !opts.IncludeSentiment {
		extras = append(extras, "5. Use \"neutral\" for sentiment.")
	}
	if !opts.IncludeTags {
		extras = append(extras, "6. Leave tags empty.")
	}

	extra := ""
	if len(extras) > 0 {
		extra = strings.Join(extras, "\n") + "\n"
	}

	return fmt.Sprintf(promptTemplate, opts.MaxLength, opts.Language, extra,
		article.Title, article.Description)
}
