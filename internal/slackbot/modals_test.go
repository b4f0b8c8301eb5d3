package slackbot

import (
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkboard/internal/domain"
)

func inputBlocks(t *testing.T, modal slack.ModalViewRequest) map[string]*slack.InputBlock {
	t.Helper()
	blocks := make(map[string]*slack.InputBlock)
	for _, b := range modal.Blocks.BlockSet {
		input, ok := b.(*slack.InputBlock)
		require.True(t, ok, "unexpected block type %T", b)
		blocks[input.BlockID] = input
	}
	return blocks
}

func TestArticleModal(t *testing.T) {
	modal := ArticleModal("C123")

	assert.Equal(t, ArticleCallbackID, modal.CallbackID)
	assert.Equal(t, "C123", modal.PrivateMetadata)
	assert.Equal(t, "아티클 추가", modal.Title.Text)

	blocks := inputBlocks(t, modal)
	require.Contains(t, blocks, articleURLBlock)
	require.Contains(t, blocks, articleTagsBlock)

	tags, ok := blocks[articleTagsBlock].Element.(*slack.MultiSelectBlockElement)
	require.True(t, ok)
	require.Len(t, tags.Options, len(domain.ArticleTags))
	assert.Equal(t, "JavaScript", tags.Options[0].Value)
	assert.Equal(t, "기타", tags.Options[len(tags.Options)-1].Value)
}

func TestJobModal(t *testing.T) {
	modal := JobModal("C456")

	assert.Equal(t, JobCallbackID, modal.CallbackID)
	assert.Equal(t, "C456", modal.PrivateMetadata)

	blocks := inputBlocks(t, modal)
	for _, id := range []string{
		jobURLBlock, companyNameBlock, positionBlock, jobTypeBlock,
		experienceBlock, startDateBlock, endDateBlock, isAlwaysBlock,
	} {
		assert.Contains(t, blocks, id)
	}

	assert.False(t, blocks[startDateBlock].Optional)
	assert.True(t, blocks[endDateBlock].Optional)
	assert.True(t, blocks[isAlwaysBlock].Optional)

	jobTypes, ok := blocks[jobTypeBlock].Element.(*slack.SelectBlockElement)
	require.True(t, ok)
	require.Len(t, jobTypes.Options, 3)
	assert.Equal(t, "full-time", jobTypes.Options[0].Value)
	assert.Equal(t, "정규직", jobTypes.Options[0].Text.Text)

	experience, ok := blocks[experienceBlock].Element.(*slack.SelectBlockElement)
	require.True(t, ok)
	require.Len(t, experience.Options, 12)
	assert.Equal(t, "-1", experience.Options[0].Value)
	assert.Equal(t, "경력 무관", experience.Options[0].Text.Text)
	assert.Equal(t, "0", experience.Options[1].Value)
	assert.Equal(t, "신입", experience.Options[1].Text.Text)
	assert.Equal(t, "10년 이상", experience.Options[11].Text.Text)
}

func submission(callbackID string, values map[string]map[string]slack.BlockAction) slack.InteractionCallback {
	return slack.InteractionCallback{
		Type: slack.InteractionTypeViewSubmission,
		User: slack.User{ID: "U1"},
		View: slack.View{
			CallbackID:      callbackID,
			PrivateMetadata: "C1",
			State:           &slack.ViewState{Values: values},
		},
	}
}

func TestParseArticleSubmission(t *testing.T) {
	cb := submission(ArticleCallbackID, map[string]map[string]slack.BlockAction{
		articleURLBlock: {articleURLInput: {Value: "  https://a.com/page "}},
		articleTagsBlock: {articleTagsInput: {SelectedOptions: []slack.OptionBlockObject{
			{Value: "Backend"}, {Value: "AI"},
		}}},
	})

	sub := ParseArticleSubmission(cb)

	assert.Equal(t, "https://a.com/page", sub.URL)
	assert.Equal(t, []string{"Backend", "AI"}, sub.Tags)
	assert.Equal(t, "U1", sub.UserID)
	assert.Equal(t, "C1", sub.ChannelID)
}

func TestParseArticleSubmission_MissingState(t *testing.T) {
	cb := slack.InteractionCallback{User: slack.User{ID: "U1"}}

	sub := ParseArticleSubmission(cb)

	assert.Empty(t, sub.URL)
	assert.Empty(t, sub.Tags)
	assert.Equal(t, "U1", sub.UserID)
}

func jobValues() map[string]map[string]slack.BlockAction {
	return map[string]map[string]slack.BlockAction{
		jobURLBlock:      {jobURLInput: {Value: "https://jobs.example.com/1"}},
		companyNameBlock: {companyNameInput: {Value: "Acme"}},
		positionBlock:    {positionInput: {Value: "Backend Engineer"}},
		jobTypeBlock:     {jobTypeInput: {SelectedOption: slack.OptionBlockObject{Value: "contract"}}},
		experienceBlock:  {experienceInput: {SelectedOption: slack.OptionBlockObject{Value: "-1"}}},
		startDateBlock:   {startDateInput: {SelectedDate: "2025-04-01"}},
		endDateBlock:     {endDateInput: {SelectedDate: "2025-04-30"}},
	}
}

func TestParseJobSubmission(t *testing.T) {
	sub, err := ParseJobSubmission(submission(JobCallbackID, jobValues()))
	require.NoError(t, err)

	assert.Equal(t, "https://jobs.example.com/1", sub.URL)
	assert.Equal(t, "Acme", sub.CompanyName)
	assert.Equal(t, "Backend Engineer", sub.Position)
	assert.Equal(t, domain.JobTypeContract, sub.JobType)
	assert.Equal(t, domain.ExperienceAny, sub.Experience)
	require.NotNil(t, sub.StartDate)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *sub.StartDate)
	require.NotNil(t, sub.EndDate)
	assert.Equal(t, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), *sub.EndDate)
	assert.False(t, sub.IsAlways)
	assert.Equal(t, "C1", sub.ChannelID)
}

func TestParseJobSubmission_AlwaysHiring(t *testing.T) {
	values := jobValues()
	values[isAlwaysBlock] = map[string]slack.BlockAction{
		isAlwaysInput: {SelectedOptions: []slack.OptionBlockObject{{Value: isAlwaysOptionValue}}},
	}
	delete(values, endDateBlock)

	sub, err := ParseJobSubmission(submission(JobCallbackID, values))
	require.NoError(t, err)

	assert.True(t, sub.IsAlways)
	assert.Nil(t, sub.EndDate)
}

func TestParseJobSubmission_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		block string
		value slack.BlockAction
	}{
		{
			name:  "experience below range",
			block: experienceBlock,
			value: slack.BlockAction{SelectedOption: slack.OptionBlockObject{Value: "-2"}},
		},
		{
			name:  "experience not a number",
			block: experienceBlock,
			value: slack.BlockAction{SelectedOption: slack.OptionBlockObject{Value: "many"}},
		},
		{
			name:  "malformed start date",
			block: startDateBlock,
			value: slack.BlockAction{SelectedDate: "04/01/2025"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := jobValues()
			for action := range values[tt.block] {
				values[tt.block][action] = tt.value
			}

			_, err := ParseJobSubmission(submission(JobCallbackID, values))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidSubmission)
		})
	}
}
