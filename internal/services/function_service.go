// internal/services/function_service.go
package services

import (
	"context"
	"strings"

	"github.com/zerosite/zerosite/internal/models"
	"github.com/zerosite/zerosite/internal/utils"
)

// BlogImageGenerator 博客配图生成
type BlogImageGenerator interface {
	GenerateBlogImage(ctx context.Context, req *models.BlogImageRequest) (*models.BlogImageResponse, error)
}

// MenuSuggester 菜单建议生成
type MenuSuggester interface {
	SuggestMenu(ctx context.Context, req *models.MenuSuggestionRequest) (*models.MenuSuggestionResponse, error)
}

// PlaceholderBlogImageService 返回固定配图的占位实现，尚未接入图像模型
type PlaceholderBlogImageService struct {
	imageURL string
	logger   *utils.Logger
}

// NewPlaceholderBlogImageService 创建占位配图服务
func NewPlaceholderBlogImageService(imageURL string, logger *utils.Logger) *PlaceholderBlogImageService {
	return &PlaceholderBlogImageService{imageURL: imageURL, logger: logger}
}

// GenerateBlogImage 返回固定图片地址，提示词原样返回
func (s *PlaceholderBlogImageService) GenerateBlogImage(ctx context.Context, req *models.BlogImageRequest) (*models.BlogImageResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("生成博客配图（占位）", map[string]interface{}{
		"blog_id":       req.BlogID,
		"prompt_length": len(req.Prompt),
	})

	return &models.BlogImageResponse{
		ImageURL:        s.imageURL,
		OptimizedPrompt: strings.TrimSpace(req.Prompt),
	}, nil
}

// PlaceholderMenuService 返回固定菜单的占位实现
type PlaceholderMenuService struct {
	logger *utils.Logger
}

// NewPlaceholderMenuService 创建占位菜单服务
func NewPlaceholderMenuService(logger *utils.Logger) *PlaceholderMenuService {
	return &PlaceholderMenuService{logger: logger}
}

var placeholderMenu = []models.MenuItem{
	{
		Name:        "Seasonal Garden Salad",
		Description: "Mixed greens, roasted seeds and a citrus vinaigrette.",
		Price:       "$12",
		Dietary:     []string{"vegetarian", "vegan", "gluten-free"},
	},
	{
		Name:        "Herb Roasted Chicken",
		Description: "Free-range chicken with rosemary potatoes and jus.",
		Price:       "$24",
		Dietary:     []string{"gluten-free"},
	},
	{
		Name:        "Dark Chocolate Tart",
		Description: "Bittersweet ganache on a shortbread crust.",
		Price:       "$9",
		Dietary:     []string{"vegetarian"},
	},
}

// SuggestMenu 返回固定菜单
func (s *PlaceholderMenuService) SuggestMenu(ctx context.Context, req *models.MenuSuggestionRequest) (*models.MenuSuggestionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info("生成菜单建议（占位）", map[string]interface{}{
		"restaurant": req.Restaurant(),
		"cuisine":    req.Cuisine(),
		"price":      req.Price(),
		"dietary":    len(req.DietaryRestrictions),
	})

	items := make([]models.MenuItem, len(placeholderMenu))
	for i, item := range placeholderMenu {
		item.Dietary = append([]string(nil), item.Dietary...)
		items[i] = item
	}
	return &models.MenuSuggestionResponse{MenuItems: items}, nil
}
