// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/pkg/timex"
)

// LinkPostRequest Request parameters for registering a link
// 注册链接的请求参数
type LinkPostRequest struct {
	URL            string   `json:"url" form:"url" binding:"required,url"`
	Label          string   `json:"label" form:"label"`
	ProjectID      int64    `json:"projectId" form:"projectId"`
	Tags           []string `json:"tags" form:"tags"`
	CheckFrequency string   `json:"checkFrequency" form:"checkFrequency"`
}

// LinkListRequest Request parameters for listing links
// 获取链接列表的请求参数
type LinkListRequest struct {
	ProjectID int64  `form:"projectId"`
	Tag       string `form:"tag"`
}

// LinkIDRequest 链接路径参数
type LinkIDRequest struct {
	ID int64 `uri:"id" binding:"required,gte=1"`
}

// ---------------- DTO / Response ----------------

// LinkDTO Link data transfer object
// 链接数据传输对象
type LinkDTO struct {
	ID             int64    `json:"id"`
	URL            string   `json:"url"`
	Label          string   `json:"label"`
	ProjectID      int64    `json:"projectId"`
	Tags           []string `json:"tags"`
	CheckFrequency string   `json:"checkFrequency"`
	LastHash       string   `json:"lastHash"`
	LastCheckedAt  string   `json:"lastCheckedAt"`
	CreatedAt      string   `json:"createdAt"`
}

// NewLinkDTO 从领域模型构建 LinkDTO
func NewLinkDTO(l *domain.Link) *LinkDTO {
	if l == nil {
		return nil
	}
	d := &LinkDTO{
		ID:             l.ID,
		URL:            l.URL,
		Label:          l.Label,
		ProjectID:      l.ProjectID,
		Tags:           l.Tags,
		CheckFrequency: string(l.CheckFrequency),
		LastHash:       l.LastHash,
		CreatedAt:      timex.Time(l.CreatedAt).String(),
	}
	if !l.LastCheckedAt.IsZero() {
		d.LastCheckedAt = timex.Time(l.LastCheckedAt).String()
	}
	return d
}
