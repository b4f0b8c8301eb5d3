package domain

import "time"

// Article is a shared link stored in the articles table. URL is unique.
type Article struct {
	ID          int64     `db:"id"`
	URL         string    `db:"url"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	Tags        []string  `db:"-"`
	CreatedAt   time.Time `db:"created_at"`
}

// ArticleSubmission is what the article modal returns.
type ArticleSubmission struct {
	URL       string
	Tags      []string
	UserID    string
	ChannelID string
}

// ArticleTags lists the options offered by the article modal.
var ArticleTags = []string{
	"JavaScript",
	"TypeScript",
	"React",
	"Frontend",
	"Backend",
	"DevOps",
	"AI",
	"디자인",
	"기타",
}

// Metadata is the subset of scraped page metadata stored with an entry.
type Metadata struct {
	Title       string
	Description string
	ImageURL    string
}
