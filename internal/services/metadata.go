// internal/services/metadata.go
package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zerosite/zerosite/internal/models"
)

// maxDescriptionRunes 搜索引擎摘要的常用长度上限
const maxDescriptionRunes = 160

// SiteInfo 生成元数据所需的站点信息
type SiteInfo struct {
	Name string
	URL  string // 不带末尾斜杠
}

func (s SiteInfo) canonical(anchor string) string {
	url := s.URL + "/zero"
	if anchor != "" {
		url += "#" + anchor
	}
	return url
}

// DocumentMetadata 文档首页的元数据
func DocumentMetadata(site SiteInfo, content *models.ZeroContent) *models.PageMetadata {
	description := Describe(content.Preface)
	if description == "" {
		description = fmt.Sprintf("%s: %d chapters, %d principles.", site.Name, len(content.Chapters), content.PrincipleCount())
	}

	keywords := make([]string, 0, len(content.Chapters))
	for _, ch := range content.Chapters {
		if ch.Title != "" {
			keywords = append(keywords, ch.Title)
		}
	}

	return &models.PageMetadata{
		Title:        site.Name,
		Description:  description,
		CanonicalURL: site.canonical(""),
		Keywords:     keywords,
	}
}

// ChapterMetadata 章节页的元数据
func ChapterMetadata(site SiteInfo, ch *models.Chapter) *models.PageMetadata {
	description := ""
	if len(ch.Principles) > 0 {
		description = Describe(ch.Principles[0].Content)
	}
	if description == "" {
		description = fmt.Sprintf("%s, %d principles.", chapterLabel(ch), len(ch.Principles))
	}

	keywords := []string{}
	if ch.Title != "" {
		keywords = append(keywords, ch.Title)
	}

	return &models.PageMetadata{
		Title:        chapterLabel(ch) + " | " + site.Name,
		Description:  description,
		CanonicalURL: site.canonical(ch.ID),
		Keywords:     keywords,
	}
}

// PrincipleMetadata 原则页的元数据
func PrincipleMetadata(site SiteInfo, ch *models.Chapter, pr *models.Principle) *models.PageMetadata {
	title := pr.Title
	if title == "" {
		title = fmt.Sprintf("Principle %d", pr.Number)
	}

	keywords := []string{}
	for _, k := range []string{ch.Title, pr.Title} {
		if k != "" {
			keywords = append(keywords, k)
		}
	}

	return &models.PageMetadata{
		Title:        title + " | " + chapterLabel(ch) + " | " + site.Name,
		Description:  Describe(pr.Content),
		CanonicalURL: site.canonical(pr.ID),
		Keywords:     keywords,
	}
}

func chapterLabel(ch *models.Chapter) string {
	if ch.Title == "" {
		return fmt.Sprintf("Chapter %d", ch.Number)
	}
	return fmt.Sprintf("Chapter %d: %s", ch.Number, ch.Title)
}

// Describe 取文本第一句作为摘要，空白折叠，超长时截断并加省略号
func Describe(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if flat == "" {
		return ""
	}

	for i, r := range flat {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next == len(flat) || flat[next] == ' ' {
			flat = flat[:next]
			break
		}
	}

	if utf8.RuneCountInString(flat) <= maxDescriptionRunes {
		return flat
	}
	runes := []rune(flat)
	return strings.TrimSpace(string(runes[:maxDescriptionRunes-1])) + "…"
}
