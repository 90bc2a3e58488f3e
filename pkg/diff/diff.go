// Package diff 计算两份文本快照之间的结构化差异
// 输出高亮标注的 HTML 表示与有界的变更片段列表
package diff

import (
	"html"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// 片段提取上限，保证通知负载与存储体积有界
const (
	maxSnippets       = 5
	maxSnippetChars   = 140
	maxContextChars   = 200
	contextFlankChars = 80
)

// Snippet 单个变更片段：变更文本摘录 + 上下文说明
type Snippet struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

// Result 差异计算结果
type Result struct {
	// Changed 是否存在插入或删除操作
	Changed bool
	// HTML 高亮标注后的 HTML 表示，无变化时为空
	HTML string
	// Snippets 变更片段，最多 maxSnippets 条
	Snippets []Snippet
}

var spaceRunRe = regexp.MustCompile(`\s+`)

// Compute 计算 oldText 到 newText 的差异
// 相同输入总是产生相同输出；语义清理用于合并琐碎的片段边界，
// 避免字符级 diff 产生不可读的碎片化结果
func Compute(oldText, newText string) Result {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	changed := false
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			changed = true
			break
		}
	}
	// 指纹相等本应已经短路，这里再防一手哈希碰撞或调用方绕过
	if !changed {
		return Result{}
	}

	return Result{
		Changed:  true,
		HTML:     buildHTML(diffs),
		Snippets: extractSnippets(diffs),
	}
}

// buildHTML 渲染 HTML 安全的差异表示
// 所有文本先转义再包裹标记，防止被监控页面内容注入
func buildHTML(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		escaped := html.EscapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			sb.WriteString(`<ins class="diff-added">`)
			sb.WriteString(escaped)
			sb.WriteString(`</ins>`)
		case diffmatchpatch.DiffDelete:
			sb.WriteString(`<del class="diff-removed">`)
			sb.WriteString(escaped)
			sb.WriteString(`</del>`)
		default:
			sb.WriteString(`<span class="diff-equal">`)
			sb.WriteString(escaped)
			sb.WriteString(`</span>`)
		}
	}
	return sb.String()
}

// extractSnippets 按操作顺序提取变更片段
// 文本为该操作内容的前 maxSnippetChars 个字符（内部空白折叠为单空格），
// 上下文由标签、前一段等值文本的尾部与后一段等值文本的头部拼成
func extractSnippets(diffs []diffmatchpatch.Diff) []Snippet {
	var snippets []Snippet

	for i, d := range diffs {
		if len(snippets) >= maxSnippets {
			break
		}
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}

		text := strings.TrimSpace(spaceRunRe.ReplaceAllString(truncateRunes(d.Text, maxSnippetChars), " "))
		if text == "" {
			continue
		}

		label := "Removed"
		if d.Type == diffmatchpatch.DiffInsert {
			label = "Added"
		}

		before := strings.TrimSpace(tailRunes(prevEqualText(diffs, i), contextFlankChars))
		after := strings.TrimSpace(headRunes(nextEqualText(diffs, i), contextFlankChars))

		context := strings.TrimSpace(truncateRunes(label+": ..."+before+" → "+after+"...", maxContextChars))

		snippets = append(snippets, Snippet{Text: text, Context: context})
	}

	return snippets
}

// prevEqualText 返回位置 i 之前最近的等值操作文本
func prevEqualText(diffs []diffmatchpatch.Diff, i int) string {
	for j := i - 1; j >= 0; j-- {
		if diffs[j].Type == diffmatchpatch.DiffEqual {
			return diffs[j].Text
		}
	}
	return ""
}

// nextEqualText 返回位置 i 之后最近的等值操作文本
func nextEqualText(diffs []diffmatchpatch.Diff, i int) string {
	for j := i + 1; j < len(diffs); j++ {
		if diffs[j].Type == diffmatchpatch.DiffEqual {
			return diffs[j].Text
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func headRunes(s string, n int) string {
	return truncateRunes(s, n)
}

func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
