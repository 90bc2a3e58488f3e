package dto

import "github.com/haierkeys/link-watcher-service/pkg/diff"

// SummarizePostRequest Request parameters for the summarize passthrough
// 摘要直通接口的请求参数
type SummarizePostRequest struct {
	URL         string         `json:"url" form:"url" binding:"required,url"`
	Snippets    []diff.Snippet `json:"snippets" form:"snippets"`
	DiffSummary string         `json:"diffSummary" form:"diffSummary"`
}

// ---------------- DTO / Response ----------------

// SummarizeResultDTO 摘要结果
type SummarizeResultDTO struct {
	Summary    string         `json:"summary"`
	Severity   string         `json:"severity"`
	Highlights []HighlightDTO `json:"highlights"`
}
