package domain

import "time"

// SubmissionEvent announces a newly stored entry to downstream consumers.
type SubmissionEvent struct {
	Kind        Kind      `json:"kind"`
	Action      string    `json:"action"`
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"image_url"`
	SubmittedBy string    `json:"submitted_by"`
	Timestamp   time.Time `json:"timestamp"`
}

const ActionCreate = "create"
