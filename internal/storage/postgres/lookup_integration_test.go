//go:build integration

package postgres

import (
	"context"

	"github.com/lib/pq"

	"linkboard/internal/domain"
)

func (s *ArticleStore) getByURL(ctx context.Context, url string) (*domain.Article, error) {
	row := s.db.QueryRowxContext(ctx,
		`SELECT id, url, title, description, image_url, tags, created_at
		FROM articles_metadata
		WHERE url = $1`,
		url,
	)

	var article domain.Article
	err := row.Scan(
		&article.ID,
		&article.URL,
		&article.Title,
		&article.Description,
		&article.ImageURL,
		pq.Array(&article.Tags),
		&article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *JobStore) getByURL(ctx context.Context, url string) (*domain.JobPosting, error) {
	var job domain.JobPosting
	err := s.db.GetContext(ctx, &job, `
		SELECT id, url, company_name, position, job_type, experience, image_url,
			title, description, created_at, start_date, end_date, is_always
		FROM jobs
		WHERE url = $1`,
		url,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
