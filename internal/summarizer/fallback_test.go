package summarizer

import (
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"glocalnews/internal/model"

	"github.com/go-playground/assert/v2"
)

var fallbackNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func longArticle() model.Article {
	return model.Article{
		ID:    42,
		Title: "City Council Opened New Public Library",
		Description: "The city council announced the opening of a new public library in the central district. " +
			"Construction of the building took nearly three years and finished under budget. " +
			"Residents celebrated the launch with a day-long festival on the library grounds. " +
			"Officials revealed plans for two more branch libraries over the next five years. " +
			"The library holds over two hundred thousand volumes and a large digital archive.",
	}
}

func TestRuleBasedSummary_Deterministic(t *testing.T) {
	article := longArticle()
	opts := DefaultOptions()

	first := ruleBasedSummary(article, opts, fallbackNow)
	second := ruleBasedSummary(article, opts, fallbackNow)

	assert.Equal(t, true, reflect.DeepEqual(first, second))
}

func TestRuleBasedSummary_WellFormed(t *testing.T) {
	article := longArticle()
	opts := DefaultOptions()

	s := ruleBasedSummary(article, opts, fallbackNow)

	assert.Equal(t, FallbackProvider, s.Provider)
	assert.Equal(t, int64(42), s.ArticleID)
	assert.NotEqual(t, "", s.Text)
	assert.Equal(t, true, len(s.Text) <= opts.MaxLength)
	assert.Equal(t, true, s.Confidence >= 0.5 && s.Confidence <= 0.75)
	assert.Equal(t, true, s.ReadingTime >= 1)
	assert.Equal(t, fallbackNow, s.GeneratedAt)
}

func TestRuleBasedSummary_ShortDescriptionUsedVerbatim(t *testing.T) {
	article := model.Article{
		ID:          1,
		Title:       "Brief Note",
		Description: "A concise human-authored description of the story.",
	}

	s := ruleBasedSummary(article, DefaultOptions(), fallbackNow)

	assert.Equal(t, article.Description, s.Text)
}

func TestRuleBasedSummary_KeyPointsCapAndAnnouncements(t *testing.T) {
	article := longArticle()

	s := ruleBasedSummary(article, DefaultOptions(), fallbackNow)

	assert.Equal(t, true, len(s.KeyPoints) >= 1)
	assert.Equal(t, true, len(s.KeyPoints) <= 5)

	// Announcement sentences make it into the key points.
	joined := strings.ToLower(strings.Join(s.KeyPoints, " "))
	assert.Equal(t, true, strings.Contains(joined, "announced") || strings.Contains(joined, "revealed"))
}

func TestSentiment(t *testing.T) {
	assert.Equal(t, model.SentimentPositive, sentiment("a record growth success story"))
	assert.Equal(t, model.SentimentNegative, sentiment("crisis deepens after fraud and collapse"))
	assert.Equal(t, model.SentimentNeutral, sentiment("success offset by failure"))
	assert.Equal(t, model.SentimentNeutral, sentiment("a plain recounting of events"))
}

func TestTags_CappedAtEight(t *testing.T) {
	text := "technology business health sports entertainment politics science education environment transport"

	found := tags(text)

	assert.Equal(t, 8, len(found))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, readingTime("just a few words"))

	words := make([]string, 401)
	for i := range words {
		words[i] = "word"
	}
	assert.Equal(t, 3, readingTime(strings.Join(words, " ")))
}

func TestSplitSentences_DiscardsFragments(t *testing.T) {
	sentences := splitSentences("Short. This sentence is comfortably longer than twenty characters! Tiny? Another sentence that easily clears the fragment threshold.")

	assert.Equal(t, 2, len(sentences))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly", truncate("exactly", 7))
	assert.Equal(t, "a long...", truncate("a long sentence", 9))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	truncated := truncate("Wocheninterview: Bürgermeisterin kündigte Sanierung an", 22)

	if !utf8.ValidString(truncated) {
		t.Fatalf("truncated string is not valid UTF-8: %q", truncated)
	}
	assert.Equal(t, "Wocheninterview: B...", truncated)

	small := truncate("überraschend", 3)
	if !utf8.ValidString(small) {
		t.Fatalf("truncated string is not valid UTF-8: %q", small)
	}
}
