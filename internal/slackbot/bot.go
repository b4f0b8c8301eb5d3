// Package slackbot is the Socket Mode transport of the bot: slash commands
// open the submission modals and modal submissions are handed to the
// submission pipelines.
package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"linkboard/internal/domain"
	"linkboard/internal/metrics"
)

const (
	ArticleCommand = "/아티클"
	JobCommand     = "/채용공고"
)

// Submitter runs a submission pipeline. It reports failures to the user
// itself, so the returned error is informational.
type Submitter interface {
	SubmitArticle(ctx context.Context, sub domain.ArticleSubmission) error
	SubmitJob(ctx context.Context, sub domain.JobSubmission) error
}

type Config struct {
	BotToken string
	AppToken string
	// ArticlesChannelID and JobsChannelID are the announcement channels. An
	// empty value selects the channel the command was invoked from.
	ArticlesChannelID string
	JobsChannelID     string
	Debug             bool
}

// Acker acknowledges Socket Mode envelopes. *socketmode.Client implements it.
type Acker interface {
	Ack(req socketmode.Request, payload ...interface{})
}

type Bot struct {
	client     SlackAPI
	socketMode *socketmode.Client
	acker      Acker
	submitter  Submitter
	notifier   *Notifier
	cfg        Config
	metrics    *metrics.Metrics
	logger     *slog.Logger

	wg sync.WaitGroup
}

// NewClient builds the Web API client shared by the bot and its notifier.
func NewClient(cfg Config) (*slack.Client, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("bot token is required")
	}
	if cfg.AppToken == "" {
		return nil, errors.New("app token is required for Socket Mode")
	}
	if !strings.HasPrefix(cfg.AppToken, "xapp-") {
		return nil, errors.New("app token must start with xapp-")
	}

	return slack.New(
		cfg.BotToken,
		slack.OptionDebug(cfg.Debug),
		slack.OptionAppLevelToken(cfg.AppToken),
	), nil
}

func New(cfg Config, client *slack.Client, submitter Submitter, m *metrics.Metrics, logger *slog.Logger) *Bot {
	bot := newBot(cfg, client, submitter, m, logger)
	bot.socketMode = socketmode.New(client, socketmode.OptionDebug(cfg.Debug))
	bot.acker = bot.socketMode
	return bot
}

func newBot(cfg Config, client SlackAPI, submitter Submitter, m *metrics.Metrics, logger *slog.Logger) *Bot {
	return &Bot{
		client:    client,
		acker:     noopAcker{},
		submitter: submitter,
		notifier:  NewNotifier(client),
		cfg:       cfg,
		metrics:   m,
		logger:    logger.With("component", "slackbot"),
	}
}

// Run connects over Socket Mode and dispatches events until ctx is done.
// In-flight submissions are awaited before it returns.
func (b *Bot) Run(ctx context.Context) error {
	return b.serve(ctx, b.socketMode.Events, b.socketMode.RunContext)
}

// serve dispatches events while connect runs, then drains: the dispatch loop
// exits before in-flight submissions are awaited, so no submission can start
// after the wait begins.
func (b *Bot) serve(ctx context.Context, events <-chan socketmode.Event, connect func(context.Context) error) error {
	loopCtx, stop := context.WithCancel(ctx)
	dispatched := make(chan struct{})

	go func() {
		defer close(dispatched)
		for {
			select {
			case <-loopCtx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				b.handleEvent(loopCtx, evt)
			}
		}
	}()

	err := connect(ctx)

	stop()
	<-dispatched
	b.wg.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("socket mode: %w", err)
	}
	return nil
}

func (b *Bot) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.logger.Info("connecting to Socket Mode")

	case socketmode.EventTypeConnected:
		b.logger.Info("connected to Socket Mode")

	case socketmode.EventTypeConnectionError:
		b.logger.Warn("socket mode connection error", "data", evt.Data)

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		b.ack(evt)
		b.handleSlashCommand(ctx, cmd)

	case socketmode.EventTypeInteractive:
		callback, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		b.ack(evt)
		if callback.Type != slack.InteractionTypeViewSubmission {
			return
		}

		// Each submission runs on its own goroutine and survives shutdown.
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.handleViewSubmission(context.WithoutCancel(ctx), callback)
		}()
	}
}

func (b *Bot) handleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	var (
		kind  domain.Kind
		modal slack.ModalViewRequest
	)

	switch cmd.Command {
	case ArticleCommand:
		kind = domain.KindArticle
		modal = ArticleModal(destination(b.cfg.ArticlesChannelID, cmd.ChannelID))
	case JobCommand:
		kind = domain.KindJob
		modal = JobModal(destination(b.cfg.JobsChannelID, cmd.ChannelID))
	default:
		b.logger.Warn("unknown slash command", "command", cmd.Command, "user_id", cmd.UserID)
		return
	}

	if _, err := b.client.OpenViewContext(ctx, cmd.TriggerID, modal); err != nil {
		b.metrics.ObserveModalOpenFailure(kind)
		b.logger.Error("failed to open modal",
			"kind", kind,
			"user_id", cmd.UserID,
			"channel_id", cmd.ChannelID,
			"error", err,
		)
	}
}

func (b *Bot) handleViewSubmission(ctx context.Context, callback slack.InteractionCallback) {
	logger := b.logger.With("callback_id", callback.View.CallbackID, "user_id", callback.User.ID)

	switch callback.View.CallbackID {
	case ArticleCallbackID:
		if err := b.submitter.SubmitArticle(ctx, ParseArticleSubmission(callback)); err != nil {
			logger.Debug("article submission ended with error", "error", err)
		}

	case JobCallbackID:
		sub, err := ParseJobSubmission(callback)
		if err != nil {
			b.metrics.ObserveSubmission(domain.KindJob, metrics.OutcomeInvalid)
			logger.Error("failed to parse job submission", "error", err)
			if dmErr := b.notifier.SendDirect(ctx, callback.User.ID, domain.UserMessage(domain.KindJob, err)); dmErr != nil {
				logger.Error("failed to notify submitter", "error", dmErr)
			}
			return
		}
		if err := b.submitter.SubmitJob(ctx, sub); err != nil {
			logger.Debug("job submission ended with error", "error", err)
		}

	default:
		logger.Warn("unknown view submission")
	}
}

func (b *Bot) ack(evt socketmode.Event) {
	if evt.Request == nil {
		return
	}
	b.acker.Ack(*evt.Request)
}

type noopAcker struct{}

func (noopAcker) Ack(socketmode.Request, ...interface{}) {}

func destination(configured, invoking string) string {
	if configured != "" {
		return configured
	}
	return invoking
}
