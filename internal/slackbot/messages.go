package slackbot

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/slack-go/slack"

	"linkboard/internal/domain"
)

const (
	descriptionWidth = 120
	untitled         = "제목 없음"
)

var (
	mrkdwnEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	// linkEscaper percent-encodes the characters that end the URL part of
	// a <url|label> link.
	linkEscaper = strings.NewReplacer("|", "%7C", "<", "%3C", ">", "%3E")
)

func mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func link(url, label string) string {
	return fmt.Sprintf("<%s|%s>", linkEscaper.Replace(url), mrkdwnEscaper.Replace(label))
}

// ArticleAnnouncement renders the channel message for a new article. text is
// the notification fallback shown by clients that cannot render blocks.
func ArticleAnnouncement(userID string, article *domain.Article) (text string, blocks []slack.Block) {
	title := article.Title
	if title == "" {
		title = untitled
	}

	text = fmt.Sprintf("새로운 아티클이 추가되었습니다: %s", title)

	blocks = []slack.Block{
		slack.NewSectionBlock(
			mrkdwn(fmt.Sprintf("*<@%s>님이 새로운 아티클을 추가했습니다*\n%s", userID, link(article.URL, title))),
			nil, nil),
	}

	if article.Description != "" {
		desc := runewidth.Truncate(article.Description, descriptionWidth, "...")
		blocks = append(blocks, slack.NewSectionBlock(mrkdwn(mrkdwnEscaper.Replace(desc)), nil, nil))
	}

	if len(article.Tags) > 0 {
		quoted := make([]string, len(article.Tags))
		for i, tag := range article.Tags {
			quoted[i] = "`" + tag + "`"
		}
		blocks = append(blocks, slack.NewContextBlock("",
			mrkdwn("태그: "+strings.Join(quoted, ", "))))
	}

	return text, blocks
}

// JobAnnouncement renders the channel message for a new job posting.
func JobAnnouncement(userID string, job *domain.JobPosting) (text string, blocks []slack.Block) {
	text = fmt.Sprintf("새로운 채용공고가 등록되었습니다! - %s의 %s 포지션", job.CompanyName, job.Position)

	field := func(label, value string) *slack.TextBlockObject {
		return mrkdwn(fmt.Sprintf("*%s*\n%s", label, mrkdwnEscaper.Replace(value)))
	}

	blocks = []slack.Block{
		slack.NewSectionBlock(mrkdwn("*새로운 채용공고가 등록되었습니다!*"), nil, nil),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			field("회사", job.CompanyName),
			field("포지션", job.Position),
			field("고용형태", job.JobType.Label()),
			field("요구경력", job.Experience.Label()),
			field("채용기간", job.Period()),
		}, nil),
		slack.NewSectionBlock(mrkdwn(link(job.URL, "채용공고 바로가기")), nil, nil),
		slack.NewContextBlock("", mrkdwn(fmt.Sprintf("<@%s>님이 공유한 채용공고입니다", userID))),
	}

	return text, blocks
}

// ConfirmationText is sent privately to the submitter once the entry has
// been announced in channelID.
func ConfirmationText(kind domain.Kind, channelID string) string {
	if kind == domain.KindJob {
		return fmt.Sprintf("채용공고가 성공적으로 <#%s>에 추가되었습니다.", channelID)
	}
	return fmt.Sprintf("아티클이 성공적으로 <#%s>에 추가되었습니다.", channelID)
}
