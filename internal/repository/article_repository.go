package repository

import (
	"database/sql"
	"errors"

	"glocalnews/internal/model"
)

// ErrDuplicateArticle marks the normal rejection of an already stored URL.
// It is a pipeline outcome, not a failure.
var ErrDuplicateArticle = errors.New("duplicate article")

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Save inserts the article unless its URL is already stored. The insert is
// the sole deduplication authority: a conflicting URL returns
// ErrDuplicateArticle and the stored row is left untouched.
func (r *ArticleRepository) Save(article *model.Article) error {
	err := r.db.QueryRow(`
		INSERT INTO article(title, description, url, image_url, author, source_id,
			published_at, category, city, region, country, relevance_score)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, fetched_at
	`, article.Title, article.Description, article.URL, article.ImageURL, article.Author,
		article.SourceID, article.PublishedAt, article.Category, article.City,
		article.Region, article.Country, article.RelevanceScore).
		Scan(&article.ID, &article.FetchedAt)

	if err == sql.ErrNoRows {
		return ErrDuplicateArticle
	}

	return err
}

const articleColumns = `
	a.id, a.title, a.description, a.url, a.image_url, a.author, a.source_id,
	s.name, a.published_at, a.category, a.city, a.region, a.country,
	a.relevance_score, a.engagement_score, a.fetched_at`

func (r *ArticleRepository) GetLatest(limit int) ([]model.Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM article a
		JOIN source s ON s.id = a.source_id
		ORDER BY a.published_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (r *ArticleRepository) GetTrending(limit int) ([]model.Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM article a
		JOIN source s ON s.id = a.source_id
		WHERE a.engagement_score > 0
		ORDER BY a.engagement_score DESC, a.published_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArticles(rows)
}

// Search matches the query as a case-insensitive substring over title,
// description, source name and location fields.
func (r *ArticleRepository) Search(query string, limit int) ([]model.Article, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.Query(`
		SELECT `+articleColumns+`
		FROM article a
		JOIN source s ON s.id = a.source_id
		WHERE a.title ILIKE $1 OR a.description ILIKE $1 OR s.name ILIKE $1
			OR a.city ILIKE $1 OR a.region ILIKE $1 OR a.country ILIKE $1
		ORDER BY a.published_at DESC
		LIMIT $2
	`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (r *ArticleRepository) GetByID(id int64) (*model.Article, error) {
	var a model.Article
	err := r.db.QueryRow(`
		SELECT `+articleColumns+`
		FROM article a
		JOIN source s ON s.id = a.source_id
		WHERE a.id = $1
	`, id).Scan(&a.ID, &a.Title, &a.Description, &a.URL, &a.ImageURL, &a.Author,
		&a.SourceID, &a.SourceName, &a.PublishedAt, &a.Category, &a.City, &a.Region,
		&a.Country, &a.RelevanceScore, &a.EngagementScore, &a.FetchedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *ArticleRepository) UpdateEngagementScore(id int64, score int) error {
	_, err := r.db.Exec(`
		UPDATE article SET engagement_score = $1 WHERE id = $2
	`, score, id)
	return err
}

func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	var articles []model.Article
	for rows.Next() {
		var a model.Article
		err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.URL, &a.ImageURL, &a.Author,
			&a.SourceID, &a.SourceName, &a.PublishedAt, &a.Category, &a.City, &a.Region,
			&a.Country, &a.RelevanceScore, &a.EngagementScore, &a.FetchedAt)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}
