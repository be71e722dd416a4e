package news

import "context"

// ScrapeFunc is the hook for bespoke scraping logic.
type ScrapeFunc func(ctx context.Context, endpoint string) ([]RawArticle, error)

// ExternalFetcher is a pluggable slot for scraped sources. Without an
// installed ScrapeFunc it yields no articles and no error.
type ExternalFetcher struct {
	scrape ScrapeFunc
}

func NewExternalFetcher(scrape ScrapeFunc) *ExternalFetcher {
	return &ExternalFetcher{scrape: scrape}
}

func (c *ExternalFetcher) Kind() string {
	return "external"
}

func (c *ExternalFetcher) Fetch(ctx context.Context, endpoint string) ([]RawArticle, error) {
	if c.scrape == nil {
		return nil, nil
	}
	return c.scrape(ctx, endpoint)
}
