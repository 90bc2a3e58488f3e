package model

import "github.com/haierkeys/link-watcher-service/pkg/timex"

const TableNameNotification = "notification"

// Notification mapped from table <notification>
type Notification struct {
	ID      int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	LinkID  int64      `gorm:"column:link_id;not null;index:idx_notification_link" json:"linkId" form:"linkId"`
	CheckID int64      `gorm:"column:check_id;not null;index:idx_notification_check" json:"checkId" form:"checkId"`
	Type    string     `gorm:"column:type;not null" json:"type" form:"type"`
	Status  string     `gorm:"column:status;not null" json:"status" form:"status"`
	Error   string     `gorm:"column:error" json:"error" form:"error"`
	SentAt  timex.Time `gorm:"column:sent_at;type:datetime;default:NULL;autoCreateTime:false" json:"sentAt" form:"sentAt"`
}

// TableName Notification's table name
func (*Notification) TableName() string {
	return TableNameNotification
}
