package domain

import "time"

// NotificationType 通知渠道类型
type NotificationType string

const (
	NotificationTypeEmail NotificationType = "email"
	NotificationTypeSlack NotificationType = "slack"
)

// NotificationStatus 通知发送状态
type NotificationStatus string

const (
	NotificationStatusSent   NotificationStatus = "sent"
	NotificationStatusFailed NotificationStatus = "failed"
)

// Notification 通知发送记录领域模型
// 每个 (check, channel) 投递尝试一条记录
type Notification struct {
	ID      int64
	LinkID  int64
	CheckID int64
	Type    NotificationType
	Status  NotificationStatus
	Error   string
	SentAt  time.Time
}
