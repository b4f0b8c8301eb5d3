package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"linkboard/internal/domain"
	"linkboard/internal/metrics"
	"linkboard/internal/ogscraper"
)

// SubmissionService runs the article and job submission pipelines. Every step
// is awaited before the next one starts.
type SubmissionService struct {
	articles  ArticleStore
	jobs      JobStore
	scraper   Scraper
	notifier  Notifier
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewSubmissionService(
	articles ArticleStore,
	jobs JobStore,
	scraper Scraper,
	notifier Notifier,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *SubmissionService {
	return &SubmissionService{
		articles:  articles,
		jobs:      jobs,
		scraper:   scraper,
		notifier:  notifier,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With("component", "submission"),
		now:       time.Now,
	}
}

// SubmitArticle stores and announces an article. Any failure is reported to
// the submitter with a single private message and returned.
func (s *SubmissionService) SubmitArticle(ctx context.Context, sub domain.ArticleSubmission) error {
	logger := s.logger.With("kind", domain.KindArticle, "user_id", sub.UserID, "url", sub.URL)

	article, err := s.submitArticle(ctx, sub)
	if err != nil {
		return s.fail(ctx, domain.KindArticle, sub.UserID, err, logger)
	}

	s.metrics.ObserveSubmission(domain.KindArticle, metrics.OutcomeCreated)
	logger.Info("article submitted", "id", article.ID, "channel_id", sub.ChannelID)
	return nil
}

func (s *SubmissionService) submitArticle(ctx context.Context, sub domain.ArticleSubmission) (*domain.Article, error) {
	if err := validateURL(sub.URL); err != nil {
		return nil, err
	}

	exists, err := s.articles.ExistsByURL(ctx, sub.URL)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w: %w", domain.ErrStorage, err)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	meta, err := s.fetchMetadata(ctx, sub.URL)
	if err != nil {
		return nil, err
	}

	article := domain.NewArticle(sub, meta, s.now().UTC())

	id, err := s.articles.Insert(ctx, article)
	if err != nil {
		return nil, insertError(err)
	}
	article.ID = id

	s.publish(ctx, &domain.SubmissionEvent{
		Kind:        domain.KindArticle,
		Action:      domain.ActionCreate,
		ID:          id,
		URL:         article.URL,
		Title:       article.Title,
		ImageURL:    article.ImageURL,
		SubmittedBy: sub.UserID,
		Timestamp:   article.CreatedAt,
	})

	if err := s.notifier.AnnounceArticle(ctx, sub.ChannelID, sub.UserID, article); err != nil {
		return nil, fmt.Errorf("post announcement: %w", err)
	}

	if err := s.notifier.Confirm(ctx, domain.KindArticle, sub.UserID, sub.ChannelID); err != nil {
		return nil, fmt.Errorf("send confirmation: %w", err)
	}

	return article, nil
}

// SubmitJob stores and announces a job posting. Any failure is reported to
// the submitter with a single private message and returned.
func (s *SubmissionService) SubmitJob(ctx context.Context, sub domain.JobSubmission) error {
	logger := s.logger.With("kind", domain.KindJob, "user_id", sub.UserID, "url", sub.URL)

	job, err := s.submitJob(ctx, sub)
	if err != nil {
		return s.fail(ctx, domain.KindJob, sub.UserID, err, logger)
	}

	s.metrics.ObserveSubmission(domain.KindJob, metrics.OutcomeCreated)
	logger.Info("job submitted", "id", job.ID, "channel_id", sub.ChannelID)
	return nil
}

func (s *SubmissionService) submitJob(ctx context.Context, sub domain.JobSubmission) (*domain.JobPosting, error) {
	if err := validateURL(sub.URL); err != nil {
		return nil, err
	}
	if !sub.JobType.Valid() {
		return nil, fmt.Errorf("job type %q: %w", sub.JobType, domain.ErrInvalidSubmission)
	}

	exists, err := s.jobs.ExistsByURL(ctx, sub.URL)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w: %w", domain.ErrStorage, err)
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	meta, err := s.fetchMetadata(ctx, sub.URL)
	if err != nil {
		return nil, err
	}

	job := domain.NewJobPosting(sub, meta, s.now().UTC())

	id, err := s.jobs.Insert(ctx, job)
	if err != nil {
		return nil, insertError(err)
	}
	job.ID = id

	s.publish(ctx, &domain.SubmissionEvent{
		Kind:        domain.KindJob,
		Action:      domain.ActionCreate,
		ID:          id,
		URL:         job.URL,
		Title:       job.Title,
		ImageURL:    job.ImageURL,
		SubmittedBy: sub.UserID,
		Timestamp:   job.CreatedAt,
	})

	if err := s.notifier.AnnounceJob(ctx, sub.ChannelID, sub.UserID, job); err != nil {
		return nil, fmt.Errorf("post announcement: %w", err)
	}

	if err := s.notifier.Confirm(ctx, domain.KindJob, sub.UserID, sub.ChannelID); err != nil {
		return nil, fmt.Errorf("send confirmation: %w", err)
	}

	return job, nil
}

func (s *SubmissionService) fetchMetadata(ctx context.Context, pageURL string) (domain.Metadata, error) {
	start := time.Now()
	meta, err := s.scraper.Fetch(ctx, pageURL)
	s.metrics.ObserveScrape(time.Since(start))
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("fetch metadata: %w: %w", domain.ErrMetadataFetch, err)
	}

	return domain.Metadata{
		Title:       meta.Title,
		Description: meta.Description,
		ImageURL:    ogscraper.ResolveImage(meta, pageURL),
	}, nil
}

func (s *SubmissionService) publish(ctx context.Context, event *domain.SubmissionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish submission event",
			"kind", event.Kind,
			"url", event.URL,
			"error", err,
		)
	}
}

// fail reports err to the submitter and records the outcome.
func (s *SubmissionService) fail(ctx context.Context, kind domain.Kind, userID string, err error, logger *slog.Logger) error {
	outcome := outcomeOf(err)
	s.metrics.ObserveSubmission(kind, outcome)

	if outcome == metrics.OutcomeDuplicate {
		logger.Info("submission rejected: url already registered")
	} else {
		logger.Error("submission failed", "outcome", outcome, "error", err)
	}

	if dmErr := s.notifier.SendDirect(ctx, userID, domain.UserMessage(kind, err)); dmErr != nil {
		logger.Error("failed to notify submitter", "error", dmErr)
	}

	return err
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return metrics.OutcomeDuplicate
	case errors.Is(err, domain.ErrInvalidSubmission):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrMetadataFetch):
		return metrics.OutcomeMetadataError
	case errors.Is(err, domain.ErrStorage):
		return metrics.OutcomeStorageError
	default:
		return metrics.OutcomeError
	}
}

func insertError(err error) error {
	if errors.Is(err, domain.ErrAlreadyRegistered) {
		return fmt.Errorf("insert: %w", err)
	}
	return fmt.Errorf("insert: %w: %w", domain.ErrStorage, err)
}

func validateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("empty url: %w", domain.ErrInvalidSubmission)
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url %q: %w", raw, domain.ErrInvalidSubmission)
	}
	return nil
}
