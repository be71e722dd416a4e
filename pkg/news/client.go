package news

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RawArticle is the normalized shape every fetcher maps its provider
// payload into before the pipeline takes over.
type RawArticle struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	Author      string
	PublishedAt time.Time
}

// Fetcher pulls raw articles from one kind of source endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]RawArticle, error)
	Kind() string
}

// ErrRateLimited is returned when a provider's request budget for the
// current window is exhausted. The caller skips the provider instead of
// retrying inline.
var ErrRateLimited = errors.New("rate limited")

// FetchError wraps a network or parse failure from a source. Transient
// failures are retried on the next scheduled tick; permanent ones flag the
// source for operator attention.
type FetchError struct {
	Kind      string
	Endpoint  string
	Transient bool
	Err       error
}

func (e *FetchError) Error() string {
	state := "permanent"
	if e.Transient {
		state = "transient"
	}
	return fmt.Sprintf("%s fetch %s (%s): %v", e.Kind, e.Endpoint, state, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
