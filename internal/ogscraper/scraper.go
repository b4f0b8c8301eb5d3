package ogscraper

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/charset"
)

// Config holds scraper configuration.
type Config struct {
	Timeout        time.Duration
	UserAgent      string
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxBodyBytes   int64
	// OnlyOpenGraph disables the <title> and meta description fallbacks.
	OnlyOpenGraph bool
}

// Scraper fetches pages and extracts their Open Graph metadata.
type Scraper struct {
	httpClient     *http.Client
	userAgent      string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	maxBodyBytes   int64
	onlyOpenGraph  bool
	policy         *bluemonday.Policy
	logger         *slog.Logger
}

// New creates a new Scraper.
func New(cfg Config, logger *slog.Logger) *Scraper {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Scraper{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:      cfg.UserAgent,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		maxBodyBytes:   cfg.MaxBodyBytes,
		onlyOpenGraph:  cfg.OnlyOpenGraph,
		policy:         bluemonday.StrictPolicy(),
		logger:         logger.With("component", "ogscraper"),
	}
}

// Fetch downloads pageURL and extracts its metadata.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*Metadata, error) {
	var (
		markup string
		err    error
	)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		markup, err = s.download(ctx, pageURL)
		if err == nil {
			break
		}

		if attempt == s.maxAttempts {
			if s.maxAttempts > 1 {
				return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
			}
			return nil, err
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("fetch failed, retrying",
			"url", pageURL,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	meta, err := s.Parse(pageURL, markup)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("fetched metadata",
		"url", pageURL,
		"title", meta.Title,
		"og_images", len(meta.Images),
	)

	return meta, nil
}

func (s *Scraper) download(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && mediaType != "text/html" && mediaType != "application/xhtml+xml" {
			return "", fmt.Errorf("unexpected content type: %s", mediaType)
		}
	}

	body := io.Reader(resp.Body)
	if s.maxBodyBytes > 0 {
		body = io.LimitReader(resp.Body, s.maxBodyBytes)
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", fmt.Errorf("decode charset: %w", err)
	}

	markup, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	return string(markup), nil
}

// Parse extracts metadata from already fetched markup.
func (s *Scraper) Parse(pageURL, markup string) (*Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	meta := &Metadata{
		URL:  pageURL,
		HTML: markup,
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, ok := sel.Attr("content")
		if !ok {
			return
		}
		content = strings.TrimSpace(content)
		if content == "" {
			return
		}

		property := strings.ToLower(strings.TrimSpace(sel.AttrOr("property", "")))
		name := strings.ToLower(strings.TrimSpace(sel.AttrOr("name", "")))

		switch {
		case property == "og:title":
			if meta.Title == "" {
				meta.Title = s.clean(content)
			}
		case property == "og:description":
			if meta.Description == "" {
				meta.Description = s.clean(content)
			}
		case property == "og:image", property == "og:image:url", property == "og:image:secure_url":
			meta.Images = append(meta.Images, content)
		case isTwitterImage(property), isTwitterImage(name):
			meta.TwitterImages = append(meta.TwitterImages, content)
		case property == "image", name == "image":
			if meta.MetaImage == "" {
				meta.MetaImage = content
			}
		}
	})

	if !s.onlyOpenGraph {
		if meta.Title == "" {
			meta.Title = s.clean(doc.Find("title").First().Text())
		}
		if meta.Description == "" {
			desc := doc.Find(`meta[name="description"], meta[name="Description"]`).First().AttrOr("content", "")
			meta.Description = s.clean(desc)
		}
	}

	doc.Find("link[rel][href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		rel := strings.ToLower(sel.AttrOr("rel", ""))
		if !strings.Contains(rel, "icon") {
			return true
		}
		meta.Favicon = strings.TrimSpace(sel.AttrOr("href", ""))
		return meta.Favicon == ""
	})

	return meta, nil
}

func isTwitterImage(key string) bool {
	return key == "twitter:image" || key == "twitter:image:src"
}

// clean strips markup from scraped text and collapses whitespace.
func (s *Scraper) clean(text string) string {
	sanitized := html.UnescapeString(s.policy.Sanitize(text))
	return strings.Join(strings.Fields(sanitized), " ")
}

func (s *Scraper) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}
