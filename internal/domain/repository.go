// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// LinkRepository 链接仓储接口
type LinkRepository interface {
	// GetByID 根据ID获取链接
	GetByID(ctx context.Context, id int64) (*Link, error)

	// GetByURL 根据URL获取链接
	GetByURL(ctx context.Context, url string) (*Link, error)

	// Create 创建链接
	Create(ctx context.Context, link *Link) (*Link, error)

	// UpdateCheckMeta 更新链接的最近检查时间和内容指纹
	UpdateCheckMeta(ctx context.Context, id int64, hash string, checkedAt time.Time) error

	// List 获取链接列表，projectID 为 0、tag 为空表示不过滤
	List(ctx context.Context, projectID int64, tag string) ([]*Link, error)

	// Count 获取链接总数
	Count(ctx context.Context) (int64, error)

	// Delete 物理删除链接
	Delete(ctx context.Context, id int64) error

	// DetachProject 解除项目下所有链接的项目关联
	DetachProject(ctx context.Context, projectID int64) error
}

// ProjectRepository 项目仓储接口
type ProjectRepository interface {
	// GetByID 根据ID获取项目
	GetByID(ctx context.Context, id int64) (*Project, error)

	// GetByName 根据名称获取项目
	GetByName(ctx context.Context, name string) (*Project, error)

	// Create 创建项目
	Create(ctx context.Context, project *Project) (*Project, error)

	// Update 更新项目（含告警配置）
	Update(ctx context.Context, project *Project) error

	// List 获取全部项目
	List(ctx context.Context) ([]*Project, error)

	// Delete 物理删除项目
	Delete(ctx context.Context, id int64) error
}

// CheckRepository 检查记录仓储接口
type CheckRepository interface {
	// Create 创建检查记录
	Create(ctx context.Context, check *Check) (*Check, error)

	// GetByID 根据ID获取指定链接下的检查记录
	GetByID(ctx context.Context, linkID, checkID int64) (*Check, error)

	// GetLatestByLink 获取链接的最新一条检查记录
	GetLatestByLink(ctx context.Context, linkID int64) (*Check, error)

	// GetLatestContentByLink 获取链接最新一条非失败的检查记录，作为差异对比基准
	GetLatestContentByLink(ctx context.Context, linkID int64) (*Check, error)

	// ListByLink 获取链接的检查记录，按检查时间倒序，最多 limit 条
	ListByLink(ctx context.Context, linkID int64, limit int) ([]*Check, error)

	// PruneByLink 只保留链接最新的 keep 条检查记录，删除其余
	PruneByLink(ctx context.Context, linkID int64, keep int) error

	// ListChangesSince 获取指定时间之后产生变更的检查记录
	ListChangesSince(ctx context.Context, since time.Time) ([]*Check, error)

	// DeleteByLink 物理删除链接的全部检查记录
	DeleteByLink(ctx context.Context, linkID int64) error
}

// NotificationRepository 通知记录仓储接口
type NotificationRepository interface {
	// Create 创建通知记录
	Create(ctx context.Context, notification *Notification) (*Notification, error)

	// ListByCheck 获取某次检查的通知记录
	ListByCheck(ctx context.Context, checkID int64) ([]*Notification, error)

	// ListByLink 获取某个链接的通知记录
	ListByLink(ctx context.Context, linkID int64) ([]*Notification, error)

	// DeleteByLink 物理删除链接的全部通知记录
	DeleteByLink(ctx context.Context, linkID int64) error

	// DeleteOlderThan 删除指定时间之前的通知记录，返回删除条数
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
