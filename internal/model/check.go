package model

import "github.com/haierkeys/link-watcher-service/pkg/timex"

const TableNameCheck = "check_record"

// Check mapped from table <check_record>
// snippets 和 keyword_triggers 以 JSON 文本存储
type Check struct {
	ID              int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	LinkID          int64      `gorm:"column:link_id;not null;index:idx_check_link" json:"linkId" form:"linkId"`
	ChangeType      string     `gorm:"column:change_type;not null" json:"changeType" form:"changeType"`
	Severity        string     `gorm:"column:severity;default:minor" json:"severity" form:"severity"`
	Summary         string     `gorm:"column:summary" json:"summary" form:"summary"`
	Snapshot        string     `gorm:"column:snapshot;type:text" json:"snapshot" form:"snapshot"`
	ContentHash     string     `gorm:"column:content_hash" json:"contentHash" form:"contentHash"`
	DiffHTML        string     `gorm:"column:diff_html;type:text" json:"diffHtml" form:"diffHtml"`
	Snippets        string     `gorm:"column:snippets;type:text" json:"snippets" form:"snippets"`
	KeywordTriggers string     `gorm:"column:keyword_triggers;type:text" json:"keywordTriggers" form:"keywordTriggers"`
	Error           string     `gorm:"column:error" json:"error" form:"error"`
	CheckedAt       timex.Time `gorm:"column:checked_at;type:datetime;default:NULL;autoCreateTime:false" json:"checkedAt" form:"checkedAt"`
	CreatedAt       timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName Check's table name
func (*Check) TableName() string {
	return TableNameCheck
}
