package task

import (
	"context"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/app"

	"go.uber.org/zap"
)

// NotificationCleanTask 通知记录清理任务
// 按配置的保留天数删除过期的通知投递记录
type NotificationCleanTask struct {
	app      *app.App
	keepDays int
}

// NewNotificationCleanTask 创建通知记录清理任务
// 保留天数未配置时返回 nil，任务不会被调度
func NewNotificationCleanTask(a *app.App) *NotificationCleanTask {
	keepDays := a.Config().Notify.RecordKeepDays
	if keepDays <= 0 {
		return nil
	}
	return &NotificationCleanTask{
		app:      a,
		keepDays: keepDays,
	}
}

// Name 返回任务名称
func (t *NotificationCleanTask) Name() string {
	return "NotificationClean"
}

// LoopInterval 返回执行间隔
func (t *NotificationCleanTask) LoopInterval() time.Duration {
	return 6 * time.Hour
}

// IsStartupRun 是否立即执行一次
func (t *NotificationCleanTask) IsStartupRun() bool {
	return true
}

// Run 执行清理任务
func (t *NotificationCleanTask) Run(ctx context.Context) error {
	before := time.Now().AddDate(0, 0, -t.keepDays)

	deleted, err := t.app.NotificationRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		t.app.Logger().Error("task log",
			zap.String("task", t.Name()),
			zap.String("msg", "failed"),
			zap.Error(err))
		return err
	}

	if deleted > 0 {
		t.app.Logger().Info("task log",
			zap.String("task", t.Name()),
			zap.Int64("deleted", deleted),
			zap.Int("keepDays", t.keepDays))
	}
	return nil
}
