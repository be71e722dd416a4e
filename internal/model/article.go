package model

import "time"

const (
	SourceKindFeed     = "feed"
	SourceKindAPI      = "api"
	SourceKindExternal = "external"

	GeneralCategory = "general"
)

type Source struct {
	ID                   int64
	Name                 string
	Kind                 string
	Endpoint             string
	APIKey               string
	Active               bool
	FetchIntervalMinutes int
	LastFetchedAt        *time.Time
	Category             string
	City                 string
	Region               string
	Country              string
}

// Due reports whether enough time has passed since the last fetch for the
// source to be picked up again.
func (s Source) Due(now time.Time) bool {
	if s.LastFetchedAt == nil {
		return true
	}
	return now.Sub(*s.LastFetchedAt) >= time.Duration(s.FetchIntervalMinutes)*time.Minute
}

type Article struct {
	ID              int64
	Title           string
	Description     string
	URL             string
	ImageURL        string
	Author          string
	SourceID        int64
	SourceName      string
	PublishedAt     time.Time
	Category        string
	City            string
	Region          string
	Country         string
	RelevanceScore  float64
	EngagementScore int
	FetchedAt       time.Time
}
