// internal/parser/parser.go
package parser

import (
	"strings"

	"github.com/zerosite/zerosite/internal/models"
)

// state 解析状态
//
// 状态转换:
//
//	Preface         --"Chapter 1:"-->  TableOfContents (跳过目录时) 或 Content
//	Preface         --"Conclusion:"--> Conclusion
//	TableOfContents --"Chapter 1:"-->  Content
//	Content         --"Conclusion:"--> Conclusion
//
// Conclusion 为终止状态，之后所有行都归入结语。
type state int

const (
	statePreface state = iota
	stateTableOfContents
	stateContent
	stateConclusion
)

func (s state) String() string {
	switch s {
	case statePreface:
		return "preface"
	case stateTableOfContents:
		return "toc"
	case stateContent:
		return "content"
	case stateConclusion:
		return "conclusion"
	default:
		return "unknown"
	}
}

// Parser 将纯文本文档解析为 ZeroContent
type Parser struct {
	// SkipTableOfContents 为 true 时，第一次出现的 "Chapter 1:" 视为目录开头，
	// 直到第二次出现 "Chapter 1:" 才开始解析正文。
	SkipTableOfContents bool
}

// New 创建默认解析器（跳过目录）
func New() *Parser {
	return &Parser{SkipTableOfContents: true}
}

// Parse 使用默认解析器解析文本
func Parse(text string) *models.ZeroContent {
	return New().Parse(text)
}

// Parse 解析文本。从不失败，格式不完整的输入只产生部分结果。
func (p *Parser) Parse(text string) *models.ZeroContent {
	b := &builder{
		skipTOC:   p.SkipTableOfContents,
		state:     statePreface,
		result:    &models.ZeroContent{Chapters: []models.Chapter{}},
		chapter:   -1,
		principle: -1,
	}

	for _, raw := range strings.Split(text, "\n") {
		b.feed(classify(raw))
	}
	b.flush()

	return b.result
}

// builder 单次解析的可变状态
type builder struct {
	skipTOC bool
	state   state
	result  *models.ZeroContent
	buf     []string

	chapter      int // 当前章节下标，-1 表示无
	principle    int // 当前原则下标，-1 表示无
	titlePending bool
}

func (b *builder) feed(l line) {
	switch b.state {
	case statePreface:
		switch {
		case l.kind == prefaceMarker:
			return
		case l.kind == chapterMarker && l.number == 1:
			b.flush()
			if b.skipTOC {
				b.state = stateTableOfContents
				return
			}
			b.state = stateContent
			b.openChapter(l)
		case l.kind == conclusionMarker:
			b.flush()
			b.state = stateConclusion
			b.append(l.text)
		default:
			b.append(l.text)
		}

	case stateTableOfContents:
		if l.kind == chapterMarker && l.number == 1 {
			b.state = stateContent
			b.openChapter(l)
		}

	case stateContent:
		switch l.kind {
		case chapterMarker:
			b.flush()
			b.openChapter(l)
		case principleMarker:
			b.flush()
			b.openPrinciple(l)
		case conclusionMarker:
			b.flush()
			b.principle = -1
			b.state = stateConclusion
			b.append(l.text)
		default:
			b.append(l.text)
		}

	case stateConclusion:
		b.append(l.text)
	}
}

// append 向缓冲区追加一行；缓冲区为空时跳过空行
func (b *builder) append(text string) {
	if text == "" && len(b.buf) == 0 {
		return
	}
	if text != "" && b.titlePending && b.principle >= 0 {
		b.currentPrinciple().Title = text
		b.titlePending = false
	}
	b.buf = append(b.buf, text)
}

// flush 将缓冲区写入当前打开的单元并清空
func (b *builder) flush() {
	text := strings.TrimSpace(strings.Join(b.buf, "\n"))
	b.buf = nil

	switch b.state {
	case statePreface:
		b.result.Preface = text
	case stateContent:
		// 章节标题与第一个原则之间的文字没有归属单元，直接丢弃
		if b.principle < 0 || text == "" {
			return
		}
		pr := b.currentPrinciple()
		if pr.Content == "" {
			pr.Content = text
		} else {
			pr.Content += "\n\n" + text
		}
	case stateConclusion:
		b.result.Conclusion = text
	}
}

// openChapter 打开章节；编号重复时继续写入已有章节以保持ID唯一
func (b *builder) openChapter(l line) {
	b.principle = -1
	b.titlePending = false

	for i := range b.result.Chapters {
		if b.result.Chapters[i].Number == l.number {
			b.chapter = i
			return
		}
	}

	b.result.Chapters = append(b.result.Chapters, models.Chapter{
		ID:         models.ChapterID(l.number),
		Number:     l.number,
		Title:      l.rest,
		Principles: []models.Principle{},
	})
	b.chapter = len(b.result.Chapters) - 1
}

// openPrinciple 在当前章节中打开原则，标记行剩余文本作为正文第一行
func (b *builder) openPrinciple(l line) {
	ch := &b.result.Chapters[b.chapter]

	b.principle = -1
	for i := range ch.Principles {
		if ch.Principles[i].Number == l.number {
			b.principle = i
			break
		}
	}
	if b.principle < 0 {
		ch.Principles = append(ch.Principles, models.Principle{
			ID:     models.PrincipleID(ch.Number, l.number),
			Number: l.number,
		})
		b.principle = len(ch.Principles) - 1
	}

	b.titlePending = b.currentPrinciple().Title == ""
	if l.rest != "" {
		b.append(l.rest)
	}
}

func (b *builder) currentPrinciple() *models.Principle {
	return &b.result.Chapters[b.chapter].Principles[b.principle]
}
