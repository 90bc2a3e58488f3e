package domain

import (
	"time"

	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/severity"
)

// ChangeType 定义检查结果的变更类型
type ChangeType string

const (
	ChangeTypeAdded    ChangeType = "added"
	ChangeTypeModified ChangeType = "modified"
	ChangeTypeRemoved  ChangeType = "removed"
	ChangeTypeNone     ChangeType = "no-change"
	ChangeTypeError    ChangeType = "error"
)

// Check 一次检查的领域模型
type Check struct {
	ID              int64
	LinkID          int64
	ChangeType      ChangeType
	Severity        severity.Severity
	Summary         string
	Snapshot        string
	ContentHash     string
	DiffHTML        string
	Snippets        []diff.Snippet
	KeywordTriggers []string
	Error           string
	CheckedAt       time.Time
	CreatedAt       time.Time
}

// IsChange 判断该检查是否产生了内容变更
func (c *Check) IsChange() bool {
	return c.ChangeType == ChangeTypeAdded ||
		c.ChangeType == ChangeTypeModified ||
		c.ChangeType == ChangeTypeRemoved
}

// IsError 判断该检查是否为失败记录
func (c *Check) IsError() bool {
	return c.ChangeType == ChangeTypeError
}
