// internal/models/page.go
package models

// PageMetadata 视图渲染时注入<head>的SEO元数据
type PageMetadata struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CanonicalURL string   `json:"canonicalUrl"`
	Keywords     []string `json:"keywords,omitempty"`
}

// ZeroPage 文档整体及其元数据
type ZeroPage struct {
	Content  *ZeroContent  `json:"content"`
	Metadata *PageMetadata `json:"metadata"`
}

// ChapterPage 单个章节及其元数据
type ChapterPage struct {
	Chapter  *Chapter      `json:"chapter"`
	Metadata *PageMetadata `json:"metadata"`
}

// PrinciplePage 单个原则及其元数据
type PrinciplePage struct {
	ChapterID    string        `json:"chapterId"`
	ChapterTitle string        `json:"chapterTitle"`
	Principle    *Principle    `json:"principle"`
	Paragraphs   []string      `json:"paragraphs"`
	Metadata     *PageMetadata `json:"metadata"`
}
