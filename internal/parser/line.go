// internal/parser/line.go
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// lineKind 行分类结果
type lineKind int

const (
	plainLine lineKind = iota
	prefaceMarker
	chapterMarker
	principleMarker
	conclusionMarker
)

func (k lineKind) String() string {
	switch k {
	case prefaceMarker:
		return "preface"
	case chapterMarker:
		return "chapter"
	case principleMarker:
		return "principle"
	case conclusionMarker:
		return "conclusion"
	default:
		return "plain"
	}
}

// line 单行的分类结果
type line struct {
	kind   lineKind
	text   string // 去除首尾空白后的整行
	number int    // 章节或原则编号
	rest   string // 章节标题，或原则标记后同一行的正文
}

var (
	chapterPattern   = regexp.MustCompile(`^Chapter (\d+):\s*(.*)$`)
	principlePattern = regexp.MustCompile(`^Principle (\d+):\s*(.*)$`)
)

const (
	prefacePrefix    = "Preface"
	conclusionPrefix = "Conclusion:"
)

// classify 对一行文本进行分类
func classify(raw string) line {
	text := strings.TrimSpace(raw)
	l := line{kind: plainLine, text: text}

	switch {
	case strings.HasPrefix(text, conclusionPrefix):
		l.kind = conclusionMarker
	case strings.HasPrefix(text, prefacePrefix):
		l.kind = prefaceMarker
	default:
		if m := chapterPattern.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				l.kind = chapterMarker
				l.number = n
				l.rest = strings.TrimSpace(m[2])
			}
		} else if m := principlePattern.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				l.kind = principleMarker
				l.number = n
				l.rest = strings.TrimSpace(m[2])
			}
		}
	}

	return l
}
