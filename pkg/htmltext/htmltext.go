// Package htmltext 将页面标记归一化为可比较的纯文本并计算内容指纹
package htmltext

import (
	"errors"
	"regexp"
	"strings"

	"github.com/haierkeys/link-watcher-service/pkg/util"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrParse 标记解析失败
	ErrParse = errors.New("htmltext: parse failed")
	// ErrEmpty 归一化后没有任何正文文本
	ErrEmpty = errors.New("htmltext: empty content")
)

// 整棵子树剔除的节点，均为不可见或非正文内容
var dropTags = map[atom.Atom]struct{}{
	atom.Script:   {},
	atom.Style:    {},
	atom.Noscript: {},
	atom.Iframe:   {},
	atom.Svg:      {},
	atom.Img:      {},
	atom.Video:    {},
	atom.Audio:    {},
	atom.Head:     {},
}

var (
	multiSpaceRe   = regexp.MustCompile(` {2,}`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// Normalize 将原始 HTML 归一化为正文纯文本
// 剔除脚本、样式、嵌入媒体等非正文节点，去掉 style 与 on* 属性后
// 只提取 body 的文本内容，并做空白折叠
func Normalize(raw string) (string, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return "", ErrParse
	}

	stripAttrs(doc)

	body := findBody(doc)
	if body == nil {
		return "", ErrEmpty
	}

	var sb strings.Builder
	collectText(body, &sb)

	text := canonicalizeWhitespace(sb.String())
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// Fingerprint 计算归一化文本的内容指纹（hex 编码 SHA-256）
// 两份快照相同当且仅当指纹逐字节相等
func Fingerprint(text string) string {
	return util.EncodeSHA256(text)
}

// stripAttrs 去除所有元素上的 style 属性与 on* 事件属性
// 防止残留的可执行内容进入存储文本
func stripAttrs(n *html.Node) {
	if n.Type == html.ElementNode && len(n.Attr) > 0 {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if key == "style" || strings.HasPrefix(key, "on") {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripAttrs(c)
	}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

// collectText 深度优先收集可见文本，块级元素之间补换行
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, drop := dropTags[n.DataAtom]; drop {
			return
		}
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		sb.WriteString("\n")
	}
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Table, atom.Tr, atom.Br, atom.Blockquote, atom.Pre:
		return true
	}
	return false
}

// canonicalizeWhitespace 空白归一化
// 制表符转单空格，2 个以上空格折叠为 1 个，3 个以上换行折叠为 2 个，首尾裁剪
func canonicalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = multiNewlineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
