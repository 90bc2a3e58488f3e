package model

import "github.com/haierkeys/link-watcher-service/pkg/timex"

const TableNameLink = "link"

// Link mapped from table <link>
type Link struct {
	ID             int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	URL            string     `gorm:"column:url;not null;uniqueIndex:idx_link_url" json:"url" form:"url"`
	Label          string     `gorm:"column:label" json:"label" form:"label"`
	ProjectID      int64      `gorm:"column:project_id;default:0;index:idx_link_project" json:"projectId" form:"projectId"`
	Tags           string     `gorm:"column:tags" json:"tags" form:"tags"`
	CheckFrequency string     `gorm:"column:check_frequency;default:manual" json:"checkFrequency" form:"checkFrequency"`
	LastHash       string     `gorm:"column:last_hash" json:"lastHash" form:"lastHash"`
	LastCheckedAt  timex.Time `gorm:"column:last_checked_at;type:datetime;default:NULL;autoCreateTime:false" json:"lastCheckedAt" form:"lastCheckedAt"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName Link's table name
func (*Link) TableName() string {
	return TableNameLink
}
