package domain

import (
	"time"

	"github.com/haierkeys/link-watcher-service/pkg/severity"
)

// AlertSettings 项目的告警配置
type AlertSettings struct {
	EmailEnabled      bool
	EmailTo           string
	SlackEnabled      bool
	SlackWebhookURL   string
	SeverityThreshold severity.Severity
}

// AnyChannelEnabled 判断是否至少启用了一个告警渠道
func (s AlertSettings) AnyChannelEnabled() bool {
	return s.EmailEnabled || s.SlackEnabled
}

// Project 项目领域模型
// 告警配置属于项目，链接通过 ProjectID 关联
type Project struct {
	ID          int64
	Name        string
	Description string
	Alert       AlertSettings
	CreatedAt   time.Time
}
