// internal/api/validation.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/zerosite/zerosite/internal/models"
)

var registerValidationOnce sync.Once

// registerValidation 让校验错误使用 json 字段名
func registerValidation() {
	registerValidationOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// bindJSON 绑定并校验请求体，失败时返回 Zod 风格的问题列表
func bindJSON(c *gin.Context, target interface{}) []models.ValidationIssue {
	if err := c.ShouldBindJSON(target); err != nil {
		return validationIssues(err)
	}
	return nil
}

// validationIssues 将绑定错误转换为问题列表
func validationIssues(err error) []models.ValidationIssue {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		issues := make([]models.ValidationIssue, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			issues = append(issues, fieldIssue(fe))
		}
		return issues
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []models.ValidationIssue{{
			Code:    IssueInvalidType,
			Path:    issuePath(typeErr.Field),
			Message: fmt.Sprintf("Expected %s, received %s", jsonKind(typeErr.Type), typeErr.Value),
		}}
	}

	return []models.ValidationIssue{{
		Code:    IssueInvalidJSON,
		Path:    []interface{}{},
		Message: "Request body must be a JSON object",
	}}
}

func fieldIssue(fe validator.FieldError) models.ValidationIssue {
	issue := models.ValidationIssue{Path: issuePath(fe.Field())}

	switch fe.Tag() {
	case "required":
		issue.Code = IssueInvalidType
		issue.Message = "Required"
	case "min":
		issue.Code = IssueTooSmall
		issue.Message = fmt.Sprintf("%s must contain at least %s %s", kindLabel(fe.Kind()), fe.Param(), unitLabel(fe.Kind()))
	case "max":
		issue.Code = IssueTooBig
		issue.Message = fmt.Sprintf("%s must contain at most %s %s", kindLabel(fe.Kind()), fe.Param(), unitLabel(fe.Kind()))
	default:
		issue.Code = IssueCustom
		issue.Message = fmt.Sprintf("Invalid value (%s)", fe.Tag())
	}
	return issue
}

// issuePath 将 "a.b" 形式的字段路径拆分为数组
func issuePath(field string) []interface{} {
	path := []interface{}{}
	if field == "" {
		return path
	}
	for _, part := range strings.Split(field, ".") {
		path = append(path, part)
	}
	return path
}

func kindLabel(k reflect.Kind) string {
	switch k {
	case reflect.Slice, reflect.Array:
		return "Array"
	default:
		return "String"
	}
}

func unitLabel(k reflect.Kind) string {
	switch k {
	case reflect.Slice, reflect.Array:
		return "element(s)"
	default:
		return "character(s)"
	}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Bool:
		return "boolean"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "number"
	default:
		return t.Kind().String()
	}
}
