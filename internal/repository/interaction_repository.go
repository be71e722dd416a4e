package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"glocalnews/internal/model"
)

type InteractionRepository struct {
	db *sql.DB
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Record appends the event. For toggleable kinds an existing
// (user, article, kind) row makes the insert a no-op; the returned bool
// reports whether a row was written.
func (r *InteractionRepository) Record(event *model.InteractionEvent) (bool, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return false, err
	}
	if event.Payload == nil {
		payload = []byte("{}")
	}

	if model.ToggleableKind(event.Kind) {
		err := r.db.QueryRow(`
			INSERT INTO interaction_event(user_id, article_id, kind, payload)
			VALUES($1, $2, $3, $4)
			ON CONFLICT (user_id, article_id, kind) WHERE kind IN ('like', 'bookmark')
			DO NOTHING
			RETURNING id
		`, event.UserID, event.ArticleID, event.Kind, payload).Scan(&event.ID)

		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}

	err = r.db.QueryRow(`
		INSERT INTO interaction_event(user_id, article_id, kind, payload)
		VALUES($1, $2, $3, $4)
		RETURNING id
	`, event.UserID, event.ArticleID, event.Kind, payload).Scan(&event.ID)
	if err != nil {
		return false, err
	}

	return true, nil
}

// Remove deletes the active row for a toggleable kind.
func (r *InteractionRepository) Remove(userID string, articleID int64, kind string) error {
	_, err := r.db.Exec(`
		DELETE FROM interaction_event
		WHERE user_id = $1 AND article_id = $2 AND kind = $3
	`, userID, articleID, kind)
	return err
}

func (r *InteractionRepository) Counts(articleID int64) (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT kind, COUNT(*)
		FROM interaction_event
		WHERE article_id = $1
		GROUP BY kind
	`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *InteractionRepository) ArticleKindCountsSince(since time.Time) ([]model.ArticleKindCount, error) {
	rows, err := r.db.Query(`
		SELECT e.article_id, a.title, a.category, e.kind, COUNT(*)
		FROM interaction_event e
		JOIN article a ON a.id = e.article_id
		WHERE e.created_at >= $1
		GROUP BY e.article_id, a.title, a.category, e.kind
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.ArticleKindCount
	for rows.Next() {
		var c model.ArticleKindCount
		if err := rows.Scan(&c.ArticleID, &c.Title, &c.Category, &c.Kind, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *InteractionRepository) HourCountsSince(since time.Time) ([]model.HourCount, error) {
	rows, err := r.db.Query(`
		SELECT EXTRACT(HOUR FROM created_at)::int, COUNT(*)
		FROM interaction_event
		WHERE created_at >= $1
		GROUP BY 1
		ORDER BY 2 DESC
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.HourCount
	for rows.Next() {
		var c model.HourCount
		if err := rows.Scan(&c.Hour, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
