// Package domain 定义领域模型和接口
package domain

import (
	"strings"
	"time"
)

// CheckFrequency 链接的检查频率（仅存储，不做调度）
type CheckFrequency string

const (
	FrequencyManual CheckFrequency = "manual"
	FrequencyHourly CheckFrequency = "hourly"
	FrequencyDaily  CheckFrequency = "daily"
	FrequencyWeekly CheckFrequency = "weekly"
)

// IsValid 判断检查频率是否合法
func (f CheckFrequency) IsValid() bool {
	switch f {
	case FrequencyManual, FrequencyHourly, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// Link 被监控的链接领域模型
type Link struct {
	ID             int64
	URL            string
	Label          string
	ProjectID      int64
	Tags           []string
	CheckFrequency CheckFrequency
	LastHash       string
	LastCheckedAt  time.Time
	CreatedAt      time.Time
}

// DisplayName 返回展示名称，未设置 Label 时退回 URL
func (l *Link) DisplayName() string {
	if l.Label != "" {
		return l.Label
	}
	return l.URL
}

// HasTag 判断链接是否带有指定标签
func (l *Link) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
