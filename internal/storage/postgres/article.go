package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"linkboard/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM articles_metadata WHERE url = $1)",
		url,
	)
	return exists, err
}

// Insert stores a new article and returns its id. A second article with the
// same url yields domain.ErrAlreadyRegistered.
func (s *ArticleStore) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	query := `
		INSERT INTO articles_metadata (url, title, description, image_url, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		article.URL,
		article.Title,
		article.Description,
		article.ImageURL,
		pq.Array(tags),
		article.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, mapInsertError(err)
	}

	return id, nil
}
