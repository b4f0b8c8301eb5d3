package slackbot

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"linkboard/internal/domain"
)

// SlackAPI is the subset of *slack.Client used by the bot.
type SlackAPI interface {
	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// Notifier posts announcements and private messages through the Web API.
// Private messages are posted with the user ID as channel, which delivers
// them to the app's direct message conversation with that user.
type Notifier struct {
	client SlackAPI
}

func NewNotifier(client SlackAPI) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) AnnounceArticle(ctx context.Context, channelID, userID string, article *domain.Article) error {
	text, blocks := ArticleAnnouncement(userID, article)
	return n.post(ctx, channelID, text, blocks)
}

func (n *Notifier) AnnounceJob(ctx context.Context, channelID, userID string, job *domain.JobPosting) error {
	text, blocks := JobAnnouncement(userID, job)
	return n.post(ctx, channelID, text, blocks)
}

func (n *Notifier) Confirm(ctx context.Context, kind domain.Kind, userID, channelID string) error {
	return n.SendDirect(ctx, userID, ConfirmationText(kind, channelID))
}

func (n *Notifier) SendDirect(ctx context.Context, userID, text string) error {
	return n.post(ctx, userID, text, nil)
}

func (n *Notifier) post(ctx context.Context, channelID, text string, blocks []slack.Block) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if len(blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(blocks...))
	}

	if _, _, err := n.client.PostMessageContext(ctx, channelID, opts...); err != nil {
		return fmt.Errorf("post message to %s: %w", channelID, err)
	}
	return nil
}
