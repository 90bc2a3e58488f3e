package dto

import (
	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/pkg/timex"
)

// AlertSettingsBody 告警配置请求体
type AlertSettingsBody struct {
	EmailEnabled      *bool   `json:"emailEnabled" form:"emailEnabled"`
	EmailTo           *string `json:"emailTo" form:"emailTo" binding:"omitempty,email"`
	SlackEnabled      *bool   `json:"slackEnabled" form:"slackEnabled"`
	SlackWebhookURL   *string `json:"slackWebhookUrl" form:"slackWebhookUrl" binding:"omitempty,url"`
	SeverityThreshold *string `json:"severityThreshold" form:"severityThreshold" binding:"omitempty,oneof=minor moderate major"`
}

// ProjectPostRequest Request parameters for creating a project
// 创建项目的请求参数
type ProjectPostRequest struct {
	Name        string             `json:"name" form:"name" binding:"required,max=100"`
	Description string             `json:"description" form:"description"`
	Alert       *AlertSettingsBody `json:"alertSettings" form:"alertSettings"`
}

// ProjectPatchRequest Request parameters for updating a project
// 更新项目的请求参数，nil 字段表示不修改
type ProjectPatchRequest struct {
	Name        *string            `json:"name" form:"name" binding:"omitempty,max=100"`
	Description *string            `json:"description" form:"description"`
	Alert       *AlertSettingsBody `json:"alertSettings" form:"alertSettings"`
}

// ProjectIDRequest 项目路径参数
type ProjectIDRequest struct {
	ID int64 `uri:"id" binding:"required,gte=1"`
}

// ---------------- DTO / Response ----------------

// AlertSettingsDTO 告警配置数据传输对象
type AlertSettingsDTO struct {
	EmailEnabled      bool   `json:"emailEnabled"`
	EmailTo           string `json:"emailTo"`
	SlackEnabled      bool   `json:"slackEnabled"`
	SlackWebhookURL   string `json:"slackWebhookUrl"`
	SeverityThreshold string `json:"severityThreshold"`
}

// ProjectDTO Project data transfer object
// 项目数据传输对象
type ProjectDTO struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Alert       AlertSettingsDTO `json:"alertSettings"`
	CreatedAt   string           `json:"createdAt"`
}

// NewProjectDTO 从领域模型构建 ProjectDTO
func NewProjectDTO(p *domain.Project) *ProjectDTO {
	if p == nil {
		return nil
	}
	return &ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Alert: AlertSettingsDTO{
			EmailEnabled:      p.Alert.EmailEnabled,
			EmailTo:           p.Alert.EmailTo,
			SlackEnabled:      p.Alert.SlackEnabled,
			SlackWebhookURL:   p.Alert.SlackWebhookURL,
			SeverityThreshold: p.Alert.SeverityThreshold.String(),
		},
		CreatedAt: timex.Time(p.CreatedAt).String(),
	}
}
