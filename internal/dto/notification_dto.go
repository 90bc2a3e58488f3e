package dto

import (
	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/pkg/timex"
)

// NotificationTestRequest Request parameters for sending a test notification
// 发送测试通知的请求参数
type NotificationTestRequest struct {
	EmailTo         string `json:"emailTo" form:"emailTo" binding:"omitempty,email"`
	SlackWebhookURL string `json:"slackWebhookUrl" form:"slackWebhookUrl" binding:"omitempty,url"`
}

// ---------------- DTO / Response ----------------

// NotificationDTO 通知记录数据传输对象
type NotificationDTO struct {
	ID      int64  `json:"id"`
	LinkID  int64  `json:"linkId"`
	CheckID int64  `json:"checkId"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	SentAt  string `json:"sentAt"`
}

// NotificationTestResultDTO 测试通知的发送结果
type NotificationTestResultDTO struct {
	Email string `json:"email,omitempty"`
	Slack string `json:"slack,omitempty"`
}

// NewNotificationDTO 从领域模型构建 NotificationDTO
func NewNotificationDTO(n *domain.Notification) *NotificationDTO {
	if n == nil {
		return nil
	}
	return &NotificationDTO{
		ID:      n.ID,
		LinkID:  n.LinkID,
		CheckID: n.CheckID,
		Type:    string(n.Type),
		Status:  string(n.Status),
		Error:   n.Error,
		SentAt:  timex.Time(n.SentAt).String(),
	}
}
