package dto

import (
	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/summarizer"
	"github.com/haierkeys/link-watcher-service/pkg/timex"
)

// CheckPostRequest Request parameters for running a check
// 触发检查的请求参数
type CheckPostRequest struct {
	// Force 为 true 时跳过指纹短路，强制走完整流水线
	Force bool `json:"force" form:"force"`
}

// CheckLinkIDRequest 检查接口的链接路径参数
type CheckLinkIDRequest struct {
	LinkID int64 `uri:"linkId" binding:"required,gte=1"`
}

// CheckGetRequest 获取单条检查记录的路径参数
type CheckGetRequest struct {
	LinkID  int64 `uri:"linkId" binding:"required,gte=1"`
	CheckID int64 `uri:"checkId" binding:"required,gte=1"`
}

// ---------------- DTO / Response ----------------

// HighlightDTO 摘要高亮条目
type HighlightDTO struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Context string `json:"context"`
}

// CheckResultDTO 一次检查的完整结果
type CheckResultDTO struct {
	CheckID         int64          `json:"checkId,omitempty"`
	LinkID          int64          `json:"linkId"`
	Status          string         `json:"status"`
	Severity        string         `json:"severity,omitempty"`
	Summary         string         `json:"summary,omitempty"`
	DiffHTML        string         `json:"diffHtml,omitempty"`
	Snippets        []diff.Snippet `json:"snippets,omitempty"`
	Highlights      []HighlightDTO `json:"highlights,omitempty"`
	KeywordTriggers []string       `json:"keywordTriggers,omitempty"`
	Error           string         `json:"error,omitempty"`
	CheckedAt       string         `json:"checkedAt"`
}

// CheckDTO 历史检查记录数据传输对象
type CheckDTO struct {
	ID              int64          `json:"id"`
	LinkID          int64          `json:"linkId"`
	ChangeType      string         `json:"changeType"`
	Severity        string         `json:"severity"`
	Summary         string         `json:"summary"`
	DiffHTML        string         `json:"diffHtml"`
	Snippets        []diff.Snippet `json:"snippets"`
	KeywordTriggers []string       `json:"keywordTriggers"`
	Error           string         `json:"error,omitempty"`
	CheckedAt       string         `json:"checkedAt"`
}

// NewCheckDTO 从领域模型构建 CheckDTO
func NewCheckDTO(c *domain.Check) *CheckDTO {
	if c == nil {
		return nil
	}
	return &CheckDTO{
		ID:              c.ID,
		LinkID:          c.LinkID,
		ChangeType:      string(c.ChangeType),
		Severity:        c.Severity.String(),
		Summary:         c.Summary,
		DiffHTML:        c.DiffHTML,
		Snippets:        c.Snippets,
		KeywordTriggers: c.KeywordTriggers,
		Error:           c.Error,
		CheckedAt:       timex.Time(c.CheckedAt).String(),
	}
}

// NewHighlightDTOs 从摘要结果构建高亮列表
func NewHighlightDTOs(highlights []summarizer.Highlight) []HighlightDTO {
	var out []HighlightDTO
	for _, h := range highlights {
		out = append(out, HighlightDTO{
			Title:   h.Title,
			Snippet: h.Snippet,
			Context: h.Context,
		})
	}
	return out
}
