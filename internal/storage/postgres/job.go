package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"linkboard/internal/domain"
)

type JobStore struct {
	db *sqlx.DB
}

func NewJobStore(db *sqlx.DB) *JobStore {
	return &JobStore{db: db}
}

func (s *JobStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM jobs WHERE url = $1)",
		url,
	)
	return exists, err
}

// Insert stores a new job posting and returns its id. A second posting with
// the same url yields domain.ErrAlreadyRegistered.
func (s *JobStore) Insert(ctx context.Context, job *domain.JobPosting) (int64, error) {
	query := `
		INSERT INTO jobs (
			url, company_name, position, job_type, experience, image_url,
			title, description, created_at, start_date, end_date, is_always
		) VALUES (
			:url, :company_name, :position, :job_type, :experience, :image_url,
			:title, :description, :created_at, :start_date, :end_date, :is_always
		)
		RETURNING id`

	query, args, err := sqlx.Named(query, job)
	if err != nil {
		return 0, err
	}
	query = s.db.Rebind(query)

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapInsertError(err)
	}

	return id, nil
}
