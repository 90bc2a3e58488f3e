package model

import "github.com/haierkeys/link-watcher-service/pkg/timex"

const TableNameProject = "project"

// Project mapped from table <project>
// 告警配置内嵌在项目表中
type Project struct {
	ID                int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Name              string     `gorm:"column:name;not null;uniqueIndex:idx_project_name" json:"name" form:"name"`
	Description       string     `gorm:"column:description" json:"description" form:"description"`
	EmailEnabled      bool       `gorm:"column:email_enabled;default:false" json:"emailEnabled" form:"emailEnabled"`
	EmailTo           string     `gorm:"column:email_to" json:"emailTo" form:"emailTo"`
	SlackEnabled      bool       `gorm:"column:slack_enabled;default:false" json:"slackEnabled" form:"slackEnabled"`
	SlackWebhookURL   string     `gorm:"column:slack_webhook_url" json:"slackWebhookUrl" form:"slackWebhookUrl"`
	SeverityThreshold string     `gorm:"column:severity_threshold;default:moderate" json:"severityThreshold" form:"severityThreshold"`
	CreatedAt         timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName Project's table name
func (*Project) TableName() string {
	return TableNameProject
}
