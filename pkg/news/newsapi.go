package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultPageSize = 50
	defaultMaxPages = 3

	// apiRequestsPerHour is the rolling per-endpoint budget; the request
	// after the budget fails fast with ErrRateLimited.
	apiRequestsPerHour = 100
)

// APIFetcher issues parameterized JSON requests against article-list
// endpoints, following page/pageSize pagination until a short page.
type APIFetcher struct {
	apiKey     string
	httpClient *http.Client
	limiter    *windowLimiter
	pageSize   int
	maxPages   int
}

func NewAPIFetcher(apiKey string) *APIFetcher {
	return &APIFetcher{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    newWindowLimiter(apiRequestsPerHour, time.Hour),
		pageSize:   defaultPageSize,
		maxPages:   defaultMaxPages,
	}
}

func (c *APIFetcher) Kind() string {
	return "api"
}

func (c *APIFetcher) Fetch(ctx context.Context, endpoint string) ([]RawArticle, error) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, &FetchError{Kind: c.Kind(), Endpoint: endpoint, Err: err}
	}

	var articles []RawArticle
	for page := 1; page <= c.maxPages; page++ {
		if !c.limiter.allow(base.Host) {
			return nil, fmt.Errorf("%s: %w", base.Host, ErrRateLimited)
		}

		items, err := c.fetchPage(ctx, base, page)
		if err != nil {
			return nil, err
		}

		articles = append(articles, items...)
		if len(items) < c.pageSize {
			break
		}
	}

	return articles, nil
}

func (c *APIFetcher) fetchPage(ctx context.Context, base *url.URL, page int) ([]RawArticle, error) {
	u := *base
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("pageSize", fmt.Sprintf("%d", c.pageSize))
	if c.apiKey != "" {
		q.Set("apiKey", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &FetchError{Kind: c.Kind(), Endpoint: base.String(), Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: c.Kind(), Endpoint: base.String(), Transient: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Kind:      c.Kind(),
			Endpoint:  base.String(),
			Transient: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
			Err:       fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var raw apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &FetchError{Kind: c.Kind(), Endpoint: base.String(), Err: fmt.Errorf("decode: %w", err)}
	}

	articles := make([]RawArticle, 0, len(raw.Articles))
	for _, item := range raw.Articles {
		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			publishedAt = time.Time{}
		}

		articles = append(articles, RawArticle{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			ImageURL:    item.ImageURL,
			Author:      item.Author,
			PublishedAt: publishedAt,
		})
	}

	return articles, nil
}

type apiResponse struct {
	Articles []apiArticle `json:"articles"`
	Total    int          `json:"totalResults"`
}

type apiArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"urlToImage"`
	Author      string `json:"author"`
	PublishedAt string `json:"publishedAt"`
}
