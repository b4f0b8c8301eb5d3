package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"linkboard/internal/domain"
	"linkboard/internal/ogscraper"
)

type ArticleStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, article *domain.Article) (int64, error)
}

type JobStore interface {
	ExistsByURL(ctx context.Context, url string) (bool, error)
	Insert(ctx context.Context, job *domain.JobPosting) (int64, error)
}

type Scraper interface {
	Fetch(ctx context.Context, pageURL string) (*ogscraper.Metadata, error)
}

// Notifier delivers channel announcements and private messages.
type Notifier interface {
	AnnounceArticle(ctx context.Context, channelID, userID string, article *domain.Article) error
	AnnounceJob(ctx context.Context, channelID, userID string, job *domain.JobPosting) error
	Confirm(ctx context.Context, kind domain.Kind, userID, channelID string) error
	SendDirect(ctx context.Context, userID, text string) error
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.SubmissionEvent) error
	Close() error
}
