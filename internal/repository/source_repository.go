package repository

import (
	"database/sql"
	"time"

	"glocalnews/internal/model"
)

type SourceRepository struct {
	db *sql.DB
}

func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

func (r *SourceRepository) ListActive() ([]model.Source, error) {
	rows, err := r.db.Query(`
		SELECT id, name, kind, endpoint, api_key, active, fetch_interval_minutes,
			last_fetched_at, category, city, region, country
		FROM source
		WHERE active = TRUE
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSources(rows)
}

func (r *SourceRepository) ListAll() ([]model.Source, error) {
	rows, err := r.db.Query(`
		SELECT id, name, kind, endpoint, api_key, active, fetch_interval_minutes,
			last_fetched_at, category, city, region, country
		FROM source
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSources(rows)
}

// MarkFetched advances the source's fetch timestamp. Called only after a
// successful fetch so a crashed fetch is retried on the next tick.
func (r *SourceRepository) MarkFetched(id int64, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE source SET last_fetched_at = $1 WHERE id = $2
	`, at, id)
	return err
}

func scanSources(rows *sql.Rows) ([]model.Source, error) {
	var sources []model.Source
	for rows.Next() {
		var s model.Source
		var lastFetched sql.NullTime
		err := rows.Scan(&s.ID, &s.Name, &s.Kind, &s.Endpoint, &s.APIKey, &s.Active,
			&s.FetchIntervalMinutes, &lastFetched, &s.Category, &s.City, &s.Region, &s.Country)
		if err != nil {
			return nil, err
		}
		if lastFetched.Valid {
			t := lastFetched.Time
			s.LastFetchedAt = &t
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sources, nil
}
