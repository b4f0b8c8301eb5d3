package domain

import "errors"

var (
	ErrAlreadyRegistered = errors.New("url already registered")
	ErrMetadataFetch     = errors.New("metadata fetch failed")
	ErrStorage           = errors.New("storage error")
	ErrInvalidSubmission = errors.New("invalid submission")
)

const (
	MsgArticleAlreadyRegistered = "이미 등록된 URL입니다."
	MsgJobAlreadyRegistered     = "이미 등록된 채용공고입니다."
	MsgMetadataFetchFailed      = "URL 메타데이터를 가져오는데 실패했습니다."
	MsgStorageFailed            = "데이터베이스 저장 중 오류가 발생했습니다."
	MsgInvalidSubmission        = "입력값이 올바르지 않습니다."
	MsgArticleUnknownError      = "아티클 저장 중 알 수 없는 오류가 발생했습니다."
	MsgJobUnknownError          = "채용공고 저장 중 알 수 없는 오류가 발생했습니다."
)

// Kind distinguishes the two submission flows.
type Kind string

const (
	KindArticle Kind = "article"
	KindJob     Kind = "job"
)

// UserMessage returns the text sent privately to a submitter whose
// submission failed with err.
func UserMessage(kind Kind, err error) string {
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		if kind == KindJob {
			return MsgJobAlreadyRegistered
		}
		return MsgArticleAlreadyRegistered
	case errors.Is(err, ErrMetadataFetch):
		return MsgMetadataFetchFailed
	case errors.Is(err, ErrStorage):
		return MsgStorageFailed
	case errors.Is(err, ErrInvalidSubmission):
		return MsgInvalidSubmission
	}

	if err != nil && err.Error() != "" {
		return err.Error()
	}
	if kind == KindJob {
		return MsgJobUnknownError
	}
	return MsgArticleUnknownError
}
