package summarizer

import (
	"sort"
	"strings"
	"time"

	"glocalnews/internal/model"
)

const (
	minSentenceLen   = 20
	maxSentences     = 3
	maxKeyPoints     = 5
	maxTags          = 8
	maxTitleTokens   = 2
	fallbackMinConf  = 0.5
	fallbackBaseConf = 0.6
	fallbackMaxConf  = 0.75
)

// ruleBasedSummary is the deterministic, side-effect-free fallback used
// when every AI provider fails. It never fails on well-formed input.
func ruleBasedSummary(article model.Article, opts Options, now time.Time) *model.Summary {
	body := article.Description

	summary := &model.Summary{
		ArticleID:   article.ID,
		Text:        extractiveSummary(article.Title, body, opts.MaxLength),
		Sentiment:   model.SentimentNeutral,
		Confidence:  fallbackConfidence(article),
		ReadingTime: readingTime(article.Title + " " + body),
		Provider:    FallbackProvider,
		GeneratedAt: now,
	}

	if summary.Text == "" {
		summary.Text = truncate(article.Title, opts.MaxLength)
	}

	if opts.IncludeKeyPoints {
		summary.KeyPoints = keyPoints(article.Title, body)
	}
	if opts.IncludeSentiment {
		summary.Sentiment = sentiment(article.Title + " " + body)
	}
	if opts.IncludeTags {
		summary.Tags = tags(article.Title + " " + body)
	}

	return summary
}

type scoredSentence struct {
	index int
	text  string
	score int
}

// extractiveSummary uses a short human-authored description verbatim when
// it fits the budget; otherwise it picks the highest scoring sentences.
func extractiveSummary(title, body string, maxLength int) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	if len(body) <= maxLength {
		return body
	}

	sentences := splitSentences(body)
	if len(sentences) == 0 {
		return truncate(body, maxLength)
	}

	titleWords := tokenize(title)
	scored := make([]scoredSentence, 0, len(sentences))
	for i, sentence := range sentences {
		scored = append(scored, scoredSentence{
			index: i,
			text:  sentence,
			score: scoreSentence(sentence, i, titleWords),
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].score != scored[b].score {
			return scored[a].score > scored[b].score
		}
		return scored[a].index < scored[b].index
	})

	var picked []scoredSentence
	total := 0
	for _, s := range scored {
		if len(picked) == maxSentences {
			break
		}
		if total > 0 && total+len(s.text)+1 > maxLength {
			continue
		}
		picked = append(picked, s)
		total += len(s.text) + 1
	}

	if len(picked) == 0 {
		picked = scored[:1]
	}

	// Reassemble in article order.
	sort.Slice(picked, func(a, b int) bool { return picked[a].index < picked[b].index })

	parts := make([]string, len(picked))
	for i, s := range picked {
		parts[i] = s.text
	}

	return truncate(strings.Join(parts, " "), maxLength)
}

func scoreSentence(sentence string, position int, titleWords map[string]bool) int {
	score := 0

	for word := range tokenize(sentence) {
		if titleWords[word] {
			score += 2
		}
	}

	if position < maxSentences {
		score += maxSentences - position
	}

	if len(sentence) >= 50 && len(sentence) <= 200 {
		score++
	}

	if containsAnnouncement(sentence) {
		score += 3
	}

	return score
}

// splitSentences breaks text on sentence delimiters, discarding fragments.
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var sentences []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) > minSentenceLen {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func keyPoints(title, body string) []string {
	var points []string

	var titleTokens []string
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.Trim(word, ".,!?:;\"'()")
		if len(word) > 3 && !stopwords[word] {
			titleTokens = append(titleTokens, word)
		}
	}
	sort.SliceStable(titleTokens, func(a, b int) bool {
		return len(titleTokens[a]) > len(titleTokens[b])
	})
	for i, token := range titleTokens {
		if i == maxTitleTokens {
			break
		}
		points = append(points, token)
	}

	announcements := 0
	for _, sentence := range splitSentences(body) {
		if announcements == 3 || len(points) == maxKeyPoints {
			break
		}
		if containsAnnouncement(sentence) {
			points = append(points, truncate(sentence, 120))
			announcements++
		}
	}

	return points
}

func sentiment(text string) string {
	lower := strings.ToLower(text)

	positive, negative := 0, 0
	for _, word := range positiveWords {
		positive += strings.Count(lower, word)
	}
	for _, word := range negativeWords {
		negative += strings.Count(lower, word)
	}

	switch {
	case positive > negative:
		return model.SentimentPositive
	case negative > positive:
		return model.SentimentNegative
	}
	return model.SentimentNeutral
}

func tags(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, vocab := range [][]string{topicVocabulary, locationVocabulary} {
		for _, tag := range vocab {
			if len(found) == maxTags {
				return found
			}
			if strings.Contains(lower, tag) {
				found = append(found, tag)
			}
		}
	}
	return found
}

// fallbackConfidence scales with how much material the extractor had.
func fallbackConfidence(article model.Article) float64 {
	conf := fallbackBaseConf
	if len(article.Description) >= 200 {
		conf += 0.1
	}
	if len(article.Description) < 50 {
		conf = fallbackMinConf
	}
	if conf > fallbackMaxConf {
		conf = fallbackMaxConf
	}
	return conf
}

func containsAnnouncement(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, verb := range announcementVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	return false
}

func tokenize(s string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		word = strings.Trim(word, ".,!?:;\"'()")
		if len(word) > 2 && !stopwords[word] {
			words[word] = true
		}
	}
	return words
}
