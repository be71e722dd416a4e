// Package normalize turns raw fetched articles into validated, categorized
// store-ready articles.
package normalize

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"glocalnews/internal/model"
	"glocalnews/pkg/news"

	"github.com/microcosm-cc/bluemonday"
)

// ValidationError marks an article dropped for failing a structural check.
// Dropped articles are counted and logged, never fatal.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("article rejected: %s", e.Reason)
}

// categoryKeywords is the fixed taxonomy, matched first-wins over
// title+body. "general" is the absence of a match.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"technology", []string{"tech", "software", "ai ", "artificial intelligence", "startup", "app ", "cyber", "robot", "gadget", "smartphone"}},
	{"business", []string{"business", "economy", "market", "stock", "finance", "trade", "company", "investment", "revenue"}},
	{"health", []string{"health", "hospital", "medical", "vaccine", "disease", "doctor", "wellness", "medicine"}},
	{"sports", []string{"sport", "cricket", "football", "tennis", "match", "tournament", "championship", "league", "olympic"}},
	{"entertainment", []string{"movie", "film", "music", "celebrity", "concert", "festival", "bollywood", "theatre", "streaming"}},
	{"politics", []string{"election", "government", "minister", "parliament", "policy", "political", "vote", "senate"}},
	{"science", []string{"science", "research", "study", "space", "climate", "discovery", "physics", "biology"}},
}

// Gazetteer entries map location keywords to structured places.
type Place struct {
	Keyword string
	City    string
	Region  string
	Country string
}

// Bonuses are the tunable relevance increments added to the 0.5 base.
type Bonuses struct {
	Title       float64
	Description float64
	Image       float64
	Author      float64
}

func DefaultBonuses() Bonuses {
	return Bonuses{Title: 0.1, Description: 0.1, Image: 0.05, Author: 0.05}
}

const (
	relevanceBase  = 0.5
	minTitleLen    = 30
	minDescription = 120
)

type Normalizer struct {
	sanitizer *bluemonday.Policy
	gazetteer []Place
	bonuses   Bonuses
	now       func() time.Time
}

func New(gazetteer []Place) *Normalizer {
	return &Normalizer{
		sanitizer: bluemonday.StrictPolicy(),
		gazetteer: gazetteer,
		bonuses:   DefaultBonuses(),
		now:       time.Now,
	}
}

// Normalize validates and cleans a raw article. It does not consult the
// store: URL deduplication happens at insert and nowhere else.
func (n *Normalizer) Normalize(raw news.RawArticle, source model.Source) (*model.Article, error) {
	title := n.clean(raw.Title)
	if title == "" {
		return nil, &ValidationError{Reason: "missing title"}
	}

	canonical, err := canonicalURL(raw.URL)
	if err != nil {
		return nil, &ValidationError{Reason: "invalid url: " + raw.URL}
	}

	description := n.clean(raw.Description)

	article := &model.Article{
		Title:       title,
		Description: description,
		URL:         canonical,
		ImageURL:    strings.TrimSpace(raw.ImageURL),
		Author:      n.clean(raw.Author),
		SourceID:    source.ID,
		SourceName:  source.Name,
		PublishedAt: raw.PublishedAt,
		Category:    categorize(title, description, source.Category),
	}

	if article.PublishedAt.IsZero() {
		article.PublishedAt = n.now()
	}

	if place, ok := n.locate(title, description); ok {
		article.City = place.City
		article.Region = place.Region
		article.Country = place.Country
	}

	article.RelevanceScore = n.relevance(article)

	return article, nil
}

func (n *Normalizer) clean(s string) string {
	s = n.sanitizer.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

func (n *Normalizer) locate(title, description string) (Place, bool) {
	haystack := strings.ToLower(title + " " + description)
	for _, place := range n.gazetteer {
		if strings.Contains(haystack, strings.ToLower(place.Keyword)) {
			return place, true
		}
	}
	return Place{}, false
}

func (n *Normalizer) relevance(a *model.Article) float64 {
	score := relevanceBase
	if len(a.Title) >= minTitleLen {
		score += n.bonuses.Title
	}
	if len(a.Description) >= minDescription {
		score += n.bonuses.Description
	}
	if a.ImageURL != "" {
		score += n.bonuses.Image
	}
	if a.Author != "" {
		score += n.bonuses.Author
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func categorize(title, description, sourceCategory string) string {
	haystack := strings.ToLower(title + " " + description)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(haystack, keyword) {
				return entry.category
			}
		}
	}

	if sourceCategory != "" {
		return sourceCategory
	}

	return model.GeneralCategory
}

// canonicalURL validates the URL and strips fragments and tracking
// parameters so re-fetches of the same story compare equal.
func canonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host")
	}

	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)

	q := u.Query()
	for key := range q {
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
