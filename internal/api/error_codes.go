// internal/api/error_codes.go
package api

// API错误代码常量
const (
	// 通用错误
	ErrorBadRequest        = "BAD_REQUEST"
	ErrorNotFound          = "NOT_FOUND"
	ErrorInternalError     = "INTERNAL_ERROR"
	ErrorRateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// 内容相关错误
	ErrorChapterNotFound   = "CHAPTER_NOT_FOUND"
	ErrorPrincipleNotFound = "PRINCIPLE_NOT_FOUND"
	ErrorInvalidChapter    = "INVALID_CHAPTER"
	ErrorInvalidPrinciple  = "INVALID_PRINCIPLE"

	// Zod 风格的校验问题代码
	IssueInvalidType = "invalid_type"
	IssueTooSmall    = "too_small"
	IssueTooBig      = "too_big"
	IssueInvalidJSON = "invalid_json"
	IssueCustom      = "custom"
)

// 函数端点的错误消息
const (
	MessageInvalidBody        = "Invalid request body"
	MessageBlogImageFailed    = "Failed to generate blog image"
	MessageMenuFailed         = "Failed to generate menu suggestions"
	MessageInternalServerFail = "Internal server error"
)
