package slackbot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"linkboard/internal/domain"
)

const (
	ArticleCallbackID = "article_modal"
	JobCallbackID     = "job_modal"
)

// Block and action IDs of the article modal.
const (
	articleURLBlock  = "article_url_block"
	articleURLInput  = "article_url_input"
	articleTagsBlock = "article_tags_block"
	articleTagsInput = "article_tags_input"
)

// Block and action IDs of the job modal.
const (
	jobURLBlock         = "job_url_block"
	jobURLInput         = "job_url_input"
	companyNameBlock    = "company_name_block"
	companyNameInput    = "company_name_input"
	positionBlock       = "position_block"
	positionInput       = "position_input"
	jobTypeBlock        = "job_type_block"
	jobTypeInput        = "job_type_input"
	experienceBlock     = "experience_block"
	experienceInput     = "experience_input"
	startDateBlock      = "start_date_block"
	startDateInput      = "start_date_input"
	endDateBlock        = "end_date_block"
	endDateInput        = "end_date_input"
	isAlwaysBlock       = "is_always_block"
	isAlwaysInput       = "is_always_input"
	isAlwaysOptionValue = "true"
)

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func textInput(blockID, actionID, label, placeholder string) *slack.InputBlock {
	return slack.NewInputBlock(blockID,
		plainText(label),
		nil,
		slack.NewPlainTextInputBlockElement(plainText(placeholder), actionID))
}

// ArticleModal builds the form opened by the article command. channelID is
// carried back unchanged as the announcement destination.
func ArticleModal(channelID string) slack.ModalViewRequest {
	options := make([]*slack.OptionBlockObject, 0, len(domain.ArticleTags))
	for _, tag := range domain.ArticleTags {
		options = append(options, slack.NewOptionBlockObject(tag, plainText(tag), nil))
	}

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      ArticleCallbackID,
		Title:           plainText("아티클 추가"),
		Submit:          plainText("제출"),
		Close:           plainText("취소"),
		PrivateMetadata: channelID,
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				textInput(articleURLBlock, articleURLInput, "URL", "URL을 입력해주세요"),
				slack.NewInputBlock(articleTagsBlock,
					plainText("태그"),
					nil,
					slack.NewOptionsMultiSelectBlockElement(
						slack.MultiOptTypeStatic,
						plainText("태그를 선택해주세요"),
						articleTagsInput,
						options...)).WithOptional(true),
			},
		},
	}
}

// JobModal builds the form opened by the job command.
func JobModal(channelID string) slack.ModalViewRequest {
	jobTypes := make([]*slack.OptionBlockObject, 0, len(domain.JobTypes))
	for _, t := range domain.JobTypes {
		jobTypes = append(jobTypes, slack.NewOptionBlockObject(string(t), plainText(t.Label()), nil))
	}

	experiences := make([]*slack.OptionBlockObject, 0, len(domain.ExperienceOptions()))
	for _, e := range domain.ExperienceOptions() {
		experiences = append(experiences,
			slack.NewOptionBlockObject(strconv.Itoa(int(e)), plainText(e.Label()), nil))
	}

	alwaysOption := slack.NewOptionBlockObject(isAlwaysOptionValue, plainText("상시 채용"), nil)

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      JobCallbackID,
		Title:           plainText("채용공고 추가"),
		Submit:          plainText("제출"),
		Close:           plainText("취소"),
		PrivateMetadata: channelID,
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				textInput(jobURLBlock, jobURLInput, "채용공고 URL", "URL을 입력해주세요"),
				textInput(companyNameBlock, companyNameInput, "회사명", "회사명을 입력해주세요"),
				textInput(positionBlock, positionInput, "포지션", "포지션을 입력해주세요"),
				slack.NewInputBlock(jobTypeBlock,
					plainText("고용형태"),
					nil,
					slack.NewOptionsSelectBlockElement(
						slack.OptTypeStatic,
						plainText("고용형태를 선택해주세요"),
						jobTypeInput,
						jobTypes...)),
				slack.NewInputBlock(experienceBlock,
					plainText("요구경력"),
					nil,
					slack.NewOptionsSelectBlockElement(
						slack.OptTypeStatic,
						plainText("요구경력을 선택해주세요"),
						experienceInput,
						experiences...)),
				slack.NewInputBlock(startDateBlock,
					plainText("채용 시작일"),
					nil,
					slack.NewDatePickerBlockElement(startDateInput)),
				slack.NewInputBlock(endDateBlock,
					plainText("채용 마감일"),
					nil,
					slack.NewDatePickerBlockElement(endDateInput)).WithOptional(true),
				slack.NewInputBlock(isAlwaysBlock,
					plainText("상시 채용 여부"),
					nil,
					slack.NewCheckboxGroupsBlockElement(isAlwaysInput, alwaysOption)).WithOptional(true),
			},
		},
	}
}

// stateValue returns the action state for block/action, or the zero value
// when the block is missing.
func stateValue(callback slack.InteractionCallback, blockID, actionID string) slack.BlockAction {
	if callback.View.State == nil {
		return slack.BlockAction{}
	}
	block, ok := callback.View.State.Values[blockID]
	if !ok {
		return slack.BlockAction{}
	}
	return block[actionID]
}

func textValue(callback slack.InteractionCallback, blockID, actionID string) string {
	return strings.TrimSpace(stateValue(callback, blockID, actionID).Value)
}

// ParseArticleSubmission reads the submitted article modal.
func ParseArticleSubmission(callback slack.InteractionCallback) domain.ArticleSubmission {
	selected := stateValue(callback, articleTagsBlock, articleTagsInput).SelectedOptions
	tags := make([]string, 0, len(selected))
	for _, opt := range selected {
		if opt.Value != "" {
			tags = append(tags, opt.Value)
		}
	}

	return domain.ArticleSubmission{
		URL:       textValue(callback, articleURLBlock, articleURLInput),
		Tags:      tags,
		UserID:    callback.User.ID,
		ChannelID: callback.View.PrivateMetadata,
	}
}

// ParseJobSubmission reads the submitted job modal. Malformed experience or
// date values are reported as domain.ErrInvalidSubmission.
func ParseJobSubmission(callback slack.InteractionCallback) (domain.JobSubmission, error) {
	sub := domain.JobSubmission{
		URL:         textValue(callback, jobURLBlock, jobURLInput),
		CompanyName: textValue(callback, companyNameBlock, companyNameInput),
		Position:    textValue(callback, positionBlock, positionInput),
		JobType:     domain.JobType(stateValue(callback, jobTypeBlock, jobTypeInput).SelectedOption.Value),
		UserID:      callback.User.ID,
		ChannelID:   callback.View.PrivateMetadata,
	}

	if raw := stateValue(callback, experienceBlock, experienceInput).SelectedOption.Value; raw != "" {
		exp, err := domain.ParseExperience(raw)
		if err != nil {
			return domain.JobSubmission{}, fmt.Errorf("%w: %w", domain.ErrInvalidSubmission, err)
		}
		sub.Experience = exp
	}

	var err error
	if sub.StartDate, err = parseDate(stateValue(callback, startDateBlock, startDateInput).SelectedDate); err != nil {
		return domain.JobSubmission{}, err
	}
	if sub.EndDate, err = parseDate(stateValue(callback, endDateBlock, endDateInput).SelectedDate); err != nil {
		return domain.JobSubmission{}, err
	}

	for _, opt := range stateValue(callback, isAlwaysBlock, isAlwaysInput).SelectedOptions {
		if opt.Value == isAlwaysOptionValue {
			sub.IsAlways = true
		}
	}

	return sub, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", raw, domain.ErrInvalidSubmission)
	}
	return &t, nil
}
