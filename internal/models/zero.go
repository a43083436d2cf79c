// internal/models/zero.go
package models

import (
	"fmt"
	"strings"
)

// Principle 章节中编号的最小内容单元
type Principle struct {
	ID      string `json:"id"`
	Number  int    `json:"number"`
	Title   string `json:"title"`   // 正文第一行非空文本
	Content string `json:"content"` // 完整正文，包含标题行
}

// Chapter 有序的原则分组
type Chapter struct {
	ID         string      `json:"id"`
	Number     int         `json:"number"`
	Title      string      `json:"title"`
	Principles []Principle `json:"principles"`
}

// ZeroContent 解析结果的顶层结构
type ZeroContent struct {
	Preface    string    `json:"preface"`
	Chapters   []Chapter `json:"chapters"`
	Conclusion string    `json:"conclusion"`
}

// ChapterID 根据章节编号生成稳定ID
func ChapterID(chapter int) string {
	return fmt.Sprintf("chapter-%d", chapter)
}

// PrincipleID 根据章节编号和原则编号生成稳定ID
func PrincipleID(chapter, principle int) string {
	return fmt.Sprintf("chapter-%d-principle-%d", chapter, principle)
}

// Chapter 按编号查找章节
func (z *ZeroContent) Chapter(number int) (*Chapter, bool) {
	if z == nil {
		return nil, false
	}
	for i := range z.Chapters {
		if z.Chapters[i].Number == number {
			return &z.Chapters[i], true
		}
	}
	return nil, false
}

// PrincipleCount 返回所有章节的原则总数
func (z *ZeroContent) PrincipleCount() int {
	if z == nil {
		return 0
	}
	count := 0
	for _, ch := range z.Chapters {
		count += len(ch.Principles)
	}
	return count
}

// Principle 按编号查找原则
func (c *Chapter) Principle(number int) (*Principle, bool) {
	for i := range c.Principles {
		if c.Principles[i].Number == number {
			return &c.Principles[i], true
		}
	}
	return nil, false
}

// Paragraphs 按空行切分正文
func (p *Principle) Paragraphs() []string {
	return SplitParagraphs(p.Content)
}

// SplitParagraphs 按空行切分文本，段内换行保留
func SplitParagraphs(text string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}
