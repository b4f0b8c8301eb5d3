package slackbot

import (
	"context"
	"sync"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"linkboard/internal/domain"
)

// callLog records the order in which fakes are called.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeAcker struct {
	log *callLog
}

func (f *fakeAcker) Ack(req socketmode.Request, _ ...interface{}) {
	f.log.add("ack:" + req.EnvelopeID)
}

type postedMessage struct {
	channelID string
	options   []slack.MsgOption
}

type fakeSlack struct {
	mu  sync.Mutex
	log *callLog

	openErr  error
	postErr  error
	views    []slack.ModalViewRequest
	triggers []string
	posts    []postedMessage
}

func (f *fakeSlack) OpenViewContext(_ context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log.add("open_view")
	f.triggers = append(f.triggers, triggerID)
	f.views = append(f.views, view)
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &slack.ViewResponse{}, nil
}

func (f *fakeSlack) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, postedMessage{channelID: channelID, options: options})
	if f.postErr != nil {
		return "", "", f.postErr
	}
	return channelID, "1700000000.000100", nil
}

type fakeSubmitter struct {
	log *callLog
	// release, when set, blocks each submission until it is closed.
	release  chan struct{}
	started  chan struct{}
	articles []domain.ArticleSubmission
	jobs     []domain.JobSubmission
	err      error
}

func (f *fakeSubmitter) SubmitArticle(_ context.Context, sub domain.ArticleSubmission) error {
	f.log.add("submit_article")
	f.articles = append(f.articles, sub)
	return f.err
}

func (f *fakeSubmitter) SubmitJob(_ context.Context, sub domain.JobSubmission) error {
	f.log.add("submit_job")
	f.wait()
	f.jobs = append(f.jobs, sub)
	return f.err
}

func (f *fakeSubmitter) wait() {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
}
