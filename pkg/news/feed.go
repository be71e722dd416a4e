package news

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// FeedFetcher retrieves and parses RSS/Atom documents.
type FeedFetcher struct {
	parser    *gofeed.Parser
	sanitizer *bluemonday.Policy
}

func NewFeedFetcher() *FeedFetcher {
	return &FeedFetcher{
		parser:    gofeed.NewParser(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (f *FeedFetcher) Kind() string {
	return "feed"
}

func (f *FeedFetcher) Fetch(ctx context.Context, endpoint string) ([]RawArticle, error) {
	feed, err := f.parser.ParseURLWithContext(endpoint, ctx)
	if err != nil {
		return nil, &FetchError{
			Kind:      f.Kind(),
			Endpoint:  endpoint,
			Transient: transientFeedError(err),
			Err:       err,
		}
	}

	articles := make([]RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := RawArticle{
			Title:       strings.TrimSpace(item.Title),
			Description: f.stripMarkup(item.Description),
			URL:         strings.TrimSpace(item.Link),
			ImageURL:    bestImage(item),
		}

		if item.Author != nil {
			a.Author = item.Author.Name
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}

		articles = append(articles, a)
	}

	return articles, nil
}

func (f *FeedFetcher) stripMarkup(s string) string {
	s = f.sanitizer.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// bestImage resolves the preferred image reference for a feed item:
// direct enclosure, then inline media content, then media thumbnail,
// then the item-level image.
func bestImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if url := ext.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}

	if item.Image != nil {
		return item.Image.URL
	}

	return ""
}

func transientFeedError(err error) bool {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == 429
	}

	// Parse failures are permanent; anything else is assumed to be a
	// network condition worth retrying.
	if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
		return false
	}
	return true
}
