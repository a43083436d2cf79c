// internal/models/functions.go
package models

// BlogImageRequest generateBlogImage 请求体
type BlogImageRequest struct {
	Prompt string `json:"prompt" binding:"required,min=1,max=500"`
	BlogID string `json:"blogId,omitempty"`
}

// BlogImageResponse generateBlogImage 响应体
type BlogImageResponse struct {
	ImageURL        string `json:"imageUrl"`
	OptimizedPrompt string `json:"optimizedPrompt"`
}

// MenuSuggestionRequest menuSuggestionFlow 请求体
// 字符串字段用指针区分缺失与空串：字段必须出现，允许为空
type MenuSuggestionRequest struct {
	RestaurantName      *string  `json:"restaurantName" binding:"required"`
	CuisineType         *string  `json:"cuisineType" binding:"required"`
	PriceRange          *string  `json:"priceRange" binding:"required"`
	DietaryRestrictions []string `json:"dietaryRestrictions" binding:"required"`
}

// Restaurant 返回餐厅名，缺失时为空串
func (r *MenuSuggestionRequest) Restaurant() string { return deref(r.RestaurantName) }

// Cuisine 返回菜系，缺失时为空串
func (r *MenuSuggestionRequest) Cuisine() string { return deref(r.CuisineType) }

// Price 返回价位，缺失时为空串
func (r *MenuSuggestionRequest) Price() string { return deref(r.PriceRange) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MenuItem 菜单建议条目
type MenuItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Dietary     []string `json:"dietary"`
}

// MenuSuggestionResponse menuSuggestionFlow 响应体
type MenuSuggestionResponse struct {
	MenuItems []MenuItem `json:"menuItems"`
}

// ValidationIssue 单个字段校验失败信息
type ValidationIssue struct {
	Code    string        `json:"code"`
	Path    []interface{} `json:"path"`
	Message string        `json:"message"`
}

// FunctionError 函数端点的错误响应
type FunctionError struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details"`
}
