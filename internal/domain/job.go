package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type JobType string

const (
	JobTypeFullTime JobType = "full-time"
	JobTypeContract JobType = "contract"
	JobTypeIntern   JobType = "intern"
)

var jobTypeLabels = map[JobType]string{
	JobTypeFullTime: "정규직",
	JobTypeContract: "계약직",
	JobTypeIntern:   "인턴",
}

// JobTypes is the display order used by the job modal.
var JobTypes = []JobType{JobTypeFullTime, JobTypeContract, JobTypeIntern}

func (t JobType) Label() string {
	if label, ok := jobTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t JobType) Valid() bool {
	_, ok := jobTypeLabels[t]
	return ok
}

// Experience is the required years of experience. ExperienceAny and
// ExperienceEntry are the two special values.
type Experience int

const (
	ExperienceAny   Experience = -1
	ExperienceEntry Experience = 0

	MaxExperienceOption Experience = 10
)

func ParseExperience(s string) (Experience, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse experience %q: %w", s, err)
	}
	if n < int(ExperienceAny) {
		return 0, fmt.Errorf("experience %d out of range", n)
	}
	return Experience(n), nil
}

func (e Experience) Label() string {
	switch {
	case e == ExperienceAny:
		return "경력 무관"
	case e == ExperienceEntry:
		return "신입"
	default:
		return fmt.Sprintf("%d년 이상", int(e))
	}
}

// ExperienceOptions lists every selectable experience value in display order.
func ExperienceOptions() []Experience {
	opts := []Experience{ExperienceAny, ExperienceEntry}
	for n := Experience(1); n <= MaxExperienceOption; n++ {
		opts = append(opts, n)
	}
	return opts
}

// JobPosting is a job entry stored in the jobs table. URL is unique.
type JobPosting struct {
	ID          int64      `db:"id"`
	URL         string     `db:"url"`
	CompanyName string     `db:"company_name"`
	Position    string     `db:"position"`
	JobType     JobType    `db:"job_type"`
	Experience  Experience `db:"experience"`
	ImageURL    string     `db:"image_url"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	CreatedAt   time.Time  `db:"created_at"`
	StartDate   *time.Time `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	IsAlways    bool       `db:"is_always"`
}

// JobSubmission is what the job modal returns.
type JobSubmission struct {
	URL         string
	CompanyName string
	Position    string
	JobType     JobType
	Experience  Experience
	StartDate   *time.Time
	EndDate     *time.Time
	IsAlways    bool
	UserID      string
	ChannelID   string
}

// NewJobPosting combines a submission with scraped metadata. An always-hiring
// posting never carries an end date.
func NewJobPosting(sub JobSubmission, meta Metadata, createdAt time.Time) *JobPosting {
	job := &JobPosting{
		URL:         sub.URL,
		CompanyName: sub.CompanyName,
		Position:    sub.Position,
		JobType:     sub.JobType,
		Experience:  sub.Experience,
		ImageURL:    meta.ImageURL,
		Title:       meta.Title,
		Description: meta.Description,
		CreatedAt:   createdAt,
		StartDate:   sub.StartDate,
		EndDate:     sub.EndDate,
		IsAlways:    sub.IsAlways,
	}
	if job.IsAlways {
		job.EndDate = nil
	}
	return job
}

// NewArticle combines a submission with scraped metadata.
func NewArticle(sub ArticleSubmission, meta Metadata, createdAt time.Time) *Article {
	tags := make([]string, 0, len(sub.Tags))
	seen := make(map[string]struct{}, len(sub.Tags))
	for _, tag := range sub.Tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return &Article{
		URL:         sub.URL,
		Title:       meta.Title,
		Description: meta.Description,
		ImageURL:    meta.ImageURL,
		Tags:        tags,
		CreatedAt:   createdAt,
	}
}

const DateLayout = "2006-01-02"

// Period renders the hiring window for announcements.
func (j *JobPosting) Period() string {
	if j.IsAlways {
		return "상시 채용"
	}
	start, end := "", ""
	if j.StartDate != nil {
		start = j.StartDate.Format(DateLayout)
	}
	if j.EndDate != nil {
		end = j.EndDate.Format(DateLayout)
	}
	if start == "" && end == "" {
		return "-"
	}
	return strings.TrimSpace(start + " ~ " + end)
}
