package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnhubFetcher serves market-category API sources through the Finnhub
// SDK. The source endpoint selects the news category.
type FinnhubFetcher struct {
	client  *finnhub.DefaultApiService
	limiter *windowLimiter
}

func NewFinnhubFetcher(apiKey string) *FinnhubFetcher {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &FinnhubFetcher{
		client:  finnhub.NewAPIClient(cfg).DefaultApi,
		limiter: newWindowLimiter(apiRequestsPerHour, time.Hour),
	}
}

func (c *FinnhubFetcher) Kind() string {
	return "api"
}

func (c *FinnhubFetcher) Fetch(ctx context.Context, endpoint string) ([]RawArticle, error) {
	category := endpoint
	if category == "" {
		category = "general"
	}

	if !c.limiter.allow("finnhub") {
		return nil, ErrRateLimited
	}

	res, _, err := c.client.MarketNews(ctx).Category(category).Execute()
	if err != nil {
		return nil, &FetchError{Kind: c.Kind(), Endpoint: endpoint, Transient: true, Err: err}
	}

	var articles []RawArticle
	for _, item := range res {
		a := RawArticle{}

		if item.Headline != nil {
			a.Title = *item.Headline
		}
		if item.Summary != nil {
			a.Description = *item.Summary
		}
		if item.Url != nil {
			a.URL = *item.Url
		}
		if item.Image != nil {
			a.ImageURL = *item.Image
		}
		if item.Datetime != nil {
			a.PublishedAt = time.Unix(*item.Datetime, 0)
		}

		articles = append(articles, a)
	}

	return articles, nil
}
