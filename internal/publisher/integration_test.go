//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"linkboard/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	s.amqpURL, err = container.AmqpURL(s.ctx)
	s.Require().NoError(err)
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

// subscribe binds a temporary queue on exchange with pattern.
func (s *RabbitMQIntegrationSuite) subscribe(exchange, pattern string) <-chan amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	s.T().Cleanup(func() { conn.Close() })

	ch, err := conn.Channel()
	s.Require().NoError(err)

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	s.Require().NoError(err)
	s.Require().NoError(ch.QueueBind(q.Name, pattern, exchange, false, nil))

	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	s.Require().NoError(err)
	return deliveries
}

func (s *RabbitMQIntegrationSuite) receive(deliveries <-chan amqp.Delivery) *amqp.Delivery {
	select {
	case d := <-deliveries:
		return &d
	case <-time.After(5 * time.Second):
		s.Fail("no event delivered")
		return nil
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_RequiresRoutingKey() {
	_, err := NewRabbitMQ(Config{URL: s.amqpURL, Exchange: "linkboard-empty"}, s.logger)
	s.Error(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_ArticleEventReachesDurableQueue() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "linkboard-queue",
		RoutingKey: "submissions",
		QueueName:  "linkboard-queue-submissions",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	s.Require().NoError(pub.Publish(s.ctx, &domain.SubmissionEvent{
		Kind:        domain.KindArticle,
		Action:      domain.ActionCreate,
		ID:          7,
		URL:         "https://example.com/article",
		Title:       "Go generics",
		SubmittedBy: "U123",
	}))

	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()
	ch, err := conn.Channel()
	s.Require().NoError(err)

	deliveries, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	msg := s.receive(deliveries)
	s.Require().NotNil(msg)
	s.Equal("submissions.article.create", msg.RoutingKey)
	s.Equal("article-7", msg.MessageId)

	var event domain.SubmissionEvent
	s.Require().NoError(json.Unmarshal(msg.Body, &event))
	s.Equal("Go generics", event.Title)
	s.Equal("U123", event.SubmittedBy)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_KindBindingFiltersEvents() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "linkboard-topic",
		RoutingKey: "submissions",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	jobs := s.subscribe(cfg.Exchange, "*.job.*")
	all := s.subscribe(cfg.Exchange, cfg.Binding())

	s.Require().NoError(pub.Publish(s.ctx, &domain.SubmissionEvent{
		Kind: domain.KindArticle, Action: domain.ActionCreate, ID: 1, URL: "https://a.com",
	}))
	s.Require().NoError(pub.Publish(s.ctx, &domain.SubmissionEvent{
		Kind: domain.KindJob, Action: domain.ActionCreate, ID: 2, URL: "https://jobs.example.com/2",
	}))

	msg := s.receive(jobs)
	s.Require().NotNil(msg)
	s.Equal("submissions.job.create", msg.RoutingKey)
	s.Equal("job-2", msg.MessageId)

	select {
	case extra := <-jobs:
		s.Failf("unexpected delivery", "job binding received %s", extra.RoutingKey)
	case <-time.After(500 * time.Millisecond):
	}

	first := s.receive(all)
	second := s.receive(all)
	s.Require().NotNil(first)
	s.Require().NotNil(second)
	s.ElementsMatch(
		[]string{"submissions.article.create", "submissions.job.create"},
		[]string{first.RoutingKey, second.RoutingKey},
	)
}
