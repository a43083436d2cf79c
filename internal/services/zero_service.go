// internal/services/zero_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zerosite/zerosite/internal/config"
	apperrors "github.com/zerosite/zerosite/internal/errors"
	"github.com/zerosite/zerosite/internal/models"
	"github.com/zerosite/zerosite/internal/parser"
	"github.com/zerosite/zerosite/internal/storage"
	"github.com/zerosite/zerosite/internal/utils"
)

// ZeroService 读取并解析 Zero 文档，按章节/原则提供内容与SEO元数据
type ZeroService struct {
	documentPath string
	site         SiteInfo
	cache        *storage.DocumentCache
	metrics      *utils.APIMetrics
	logger       *utils.Logger
}

// NewZeroService 创建内容服务
func NewZeroService(cfg *config.AppConfig, metrics *utils.APIMetrics, logger *utils.Logger) *ZeroService {
	s := &ZeroService{
		documentPath: cfg.DocumentPath,
		site:         SiteInfo{Name: cfg.SiteName, URL: cfg.SiteURL},
		metrics:      metrics,
		logger:       logger,
	}
	s.cache = storage.NewDocumentCache(s.parse, 8, 10*time.Minute)
	return s
}

// parse 解析并记录耗时
func (s *ZeroService) parse(text string) *models.ZeroContent {
	start := time.Now()
	content := parser.Parse(text)
	s.metrics.RecordDocumentParse(len(content.Chapters), content.PrincipleCount(), time.Since(start))
	return content
}

// Content 返回完整的解析结果（只读）
func (s *ZeroService) Content(ctx context.Context) (*models.ZeroContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.cache.Load(s.documentPath)
	if err != nil {
		s.logger.Error("加载文档失败", map[string]interface{}{
			"path":  s.documentPath,
			"error": err,
		})
		return nil, apperrors.NewProcessingError("加载文档失败", err)
	}
	if res.Cached {
		s.metrics.RecordDocumentCacheHit()
	}

	return res.Content, nil
}

// Chapter 按编号返回章节
func (s *ZeroService) Chapter(ctx context.Context, number int) (*models.Chapter, error) {
	content, err := s.Content(ctx)
	if err != nil {
		return nil, err
	}

	ch, ok := content.Chapter(number)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("章节 %d 不存在", number), nil)
	}
	return ch, nil
}

// Principle 按章节编号和原则编号返回原则及其所属章节
func (s *ZeroService) Principle(ctx context.Context, chapter, principle int) (*models.Chapter, *models.Principle, error) {
	ch, err := s.Chapter(ctx, chapter)
	if err != nil {
		return nil, nil, err
	}

	pr, ok := ch.Principle(principle)
	if !ok {
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("章节 %d 中原则 %d 不存在", chapter, principle), nil)
	}
	return ch, pr, nil
}

// DocumentPage 文档及其元数据
func (s *ZeroService) DocumentPage(ctx context.Context) (*models.ZeroPage, error) {
	content, err := s.Content(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ZeroPage{
		Content:  content,
		Metadata: DocumentMetadata(s.site, content),
	}, nil
}

// ChapterPage 章节及其元数据
func (s *ZeroService) ChapterPage(ctx context.Context, number int) (*models.ChapterPage, error) {
	ch, err := s.Chapter(ctx, number)
	if err != nil {
		return nil, err
	}
	return &models.ChapterPage{
		Chapter:  ch,
		Metadata: ChapterMetadata(s.site, ch),
	}, nil
}

// PrinciplePage 原则、段落及其元数据
func (s *ZeroService) PrinciplePage(ctx context.Context, chapter, principle int) (*models.PrinciplePage, error) {
	ch, pr, err := s.Principle(ctx, chapter, principle)
	if err != nil {
		return nil, err
	}

	paragraphs := pr.Paragraphs()
	if paragraphs == nil {
		paragraphs = []string{}
	}

	return &models.PrinciplePage{
		ChapterID:    ch.ID,
		ChapterTitle: ch.Title,
		Principle:    pr,
		Paragraphs:   paragraphs,
		Metadata:     PrincipleMetadata(s.site, ch, pr),
	}, nil
}
