// internal/api/function_handlers.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zerosite/zerosite/internal/models"
)

// GenerateBlogImage POST /generateBlogImage
func (h *Handler) GenerateBlogImage(c *gin.Context) {
	var req models.BlogImageRequest
	if issues := bindJSON(c, &req); issues != nil {
		h.rejectInvalidBody(c, "generateBlogImage", issues)
		return
	}

	resp, err := h.BlogImageService.GenerateBlogImage(c.Request.Context(), &req)
	if err != nil {
		h.failFunction(c, "generateBlogImage", MessageBlogImageFailed, err)
		return
	}

	h.Metrics.RecordFunctionCall("generateBlogImage", "ok")
	c.JSON(http.StatusOK, resp)
}

// MenuSuggestionFlow POST /menuSuggestionFlow
func (h *Handler) MenuSuggestionFlow(c *gin.Context) {
	var req models.MenuSuggestionRequest
	if issues := bindJSON(c, &req); issues != nil {
		h.rejectInvalidBody(c, "menuSuggestionFlow", issues)
		return
	}

	resp, err := h.MenuService.SuggestMenu(c.Request.Context(), &req)
	if err != nil {
		h.failFunction(c, "menuSuggestionFlow", MessageMenuFailed, err)
		return
	}

	h.Metrics.RecordFunctionCall("menuSuggestionFlow", "ok")
	c.JSON(http.StatusOK, resp)
}

// rejectInvalidBody 400，客户端错误不重试
func (h *Handler) rejectInvalidBody(c *gin.Context, function string, issues []models.ValidationIssue) {
	h.Metrics.RecordFunctionCall(function, "invalid")
	h.Logger.Warn("请求体校验失败", map[string]interface{}{
		"function":   function,
		"issues":     len(issues),
		"request_id": c.GetString(requestIDKey),
	})
	c.JSON(http.StatusBadRequest, models.FunctionError{
		Error:   MessageInvalidBody,
		Details: issues,
	})
}

// failFunction 500，记录日志后返回通用错误
func (h *Handler) failFunction(c *gin.Context, function, message string, err error) {
	h.Metrics.RecordFunctionCall(function, "error")
	h.Metrics.RecordError("function_failure", function)
	h.Logger.Error(message, map[string]interface{}{
		"function":   function,
		"error":      err,
		"request_id": c.GetString(requestIDKey),
	})
	c.JSON(http.StatusInternalServerError, models.FunctionError{
		Error:   message,
		Details: err.Error(),
	})
}
