package repository

import (
	"database/sql"
	"encoding/json"

	"glocalnews/internal/model"

	"github.com/lib/pq"
)

type SummaryRepository struct {
	db *sql.DB
}

func NewSummaryRepository(db *sql.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Upsert stores the summary keyed by article id, latest wins.
func (r *SummaryRepository) Upsert(summary *model.Summary) error {
	keyPoints, err := json.Marshal(summary.KeyPoints)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO summary(article_id, summary, key_points, sentiment, confidence,
			reading_time, tags, provider, generated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (article_id) DO UPDATE SET
			summary = EXCLUDED.summary,
			key_points = EXCLUDED.key_points,
			sentiment = EXCLUDED.sentiment,
			confidence = EXCLUDED.confidence,
			reading_time = EXCLUDED.reading_time,
			tags = EXCLUDED.tags,
			provider = EXCLUDED.provider,
			generated_at = EXCLUDED.generated_at
		RETURNING id
	`, summary.ArticleID, summary.Text, keyPoints, summary.Sentiment, summary.Confidence,
		summary.ReadingTime, pq.Array(summary.Tags), summary.Provider, summary.GeneratedAt).
		Scan(&summary.ID)
}

func (r *SummaryRepository) GetByArticleID(articleID int64) (*model.Summary, error) {
	var s model.Summary
	var keyPoints []byte

	err := r.db.QueryRow(`
		SELECT id, article_id, summary, key_points, sentiment, confidence,
			reading_time, tags, provider, generated_at
		FROM summary
		WHERE article_id = $1
	`, articleID).Scan(&s.ID, &s.ArticleID, &s.Text, &keyPoints, &s.Sentiment,
		&s.Confidence, &s.ReadingTime, pq.Array(&s.Tags), &s.Provider, &s.GeneratedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(keyPoints, &s.KeyPoints); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *SummaryRepository) GetByArticleIDs(ids []int64) (map[int64]model.Summary, error) {
	rows, err := r.db.Query(`
		SELECT id, article_id, summary, key_points, sentiment, confidence,
			reading_time, tags, provider, generated_at
		FROM summary
		WHERE article_id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]model.Summary)
	for rows.Next() {
		var s model.Summary
		var keyPoints []byte
		err := rows.Scan(&s.ID, &s.ArticleID, &s.Text, &keyPoints, &s.Sentiment,
			&s.Confidence, &s.ReadingTime, pq.Array(&s.Tags), &s.Provider, &s.GeneratedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(keyPoints, &s.KeyPoints); err != nil {
			return nil, err
		}
		result[s.ArticleID] = s
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
