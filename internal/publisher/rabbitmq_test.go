package publisher

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkboard/internal/domain"
)

func TestConfig_EventKey(t *testing.T) {
	cfg := Config{RoutingKey: "submissions"}

	assert.Equal(t, "submissions.#", cfg.Binding())
	assert.Equal(t, "submissions.article.create",
		cfg.EventKey(&domain.SubmissionEvent{Kind: domain.KindArticle, Action: domain.ActionCreate}))
	assert.Equal(t, "submissions.job.create",
		cfg.EventKey(&domain.SubmissionEvent{Kind: domain.KindJob, Action: domain.ActionCreate}))
}

func TestNewMessage(t *testing.T) {
	ts := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	event := &domain.SubmissionEvent{
		Kind:        domain.KindJob,
		Action:      domain.ActionCreate,
		ID:          42,
		URL:         "https://jobs.example.com/42",
		SubmittedBy: "U1",
		Timestamp:   ts,
	}

	msg, err := newMessage(event)
	require.NoError(t, err)

	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "job-42", msg.MessageId)
	assert.Equal(t, "job.create", msg.Type)
	assert.Equal(t, ts, msg.Timestamp)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "job", decoded["kind"])
	assert.Equal(t, "create", decoded["action"])
	assert.Equal(t, "U1", decoded["submitted_by"])
}

func TestNewMessage_StampsMissingTimestamp(t *testing.T) {
	event := &domain.SubmissionEvent{Kind: domain.KindArticle, Action: domain.ActionCreate}

	msg, err := newMessage(event)
	require.NoError(t, err)

	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, event.Timestamp, msg.Timestamp)
}
