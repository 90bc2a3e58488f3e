package dao

import (
	"context"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/model"
	"github.com/haierkeys/link-watcher-service/pkg/timex"
)

// notificationRepository implements domain.NotificationRepository interface
type notificationRepository struct {
	dao *Dao
}

// NewNotificationRepository creates a NotificationRepository instance
func NewNotificationRepository(dao *Dao) domain.NotificationRepository {
	return &notificationRepository{dao: dao}
}

// toDomain converts database model to domain model
func (r *notificationRepository) toDomain(m *model.Notification) *domain.Notification {
	if m == nil {
		return nil
	}
	return &domain.Notification{
		ID:      m.ID,
		LinkID:  m.LinkID,
		CheckID: m.CheckID,
		Type:    domain.NotificationType(m.Type),
		Status:  domain.NotificationStatus(m.Status),
		Error:   m.Error,
		SentAt:  m.SentAt.Time(),
	}
}

// Create 创建通知记录
func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	m := &model.Notification{
		LinkID:  notification.LinkID,
		CheckID: notification.CheckID,
		Type:    string(notification.Type),
		Status:  string(notification.Status),
		Error:   notification.Error,
		SentAt:  timex.Time(notification.SentAt),
	}
	if err := r.dao.Db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// ListByCheck 获取某次检查的通知记录
func (r *notificationRepository) ListByCheck(ctx context.Context, checkID int64) ([]*domain.Notification, error) {
	var modelList []*model.Notification
	err := r.dao.Db.WithContext(ctx).
		Where("check_id = ?", checkID).
		Order("sent_at DESC, id DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.Notification
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// ListByLink 获取某个链接的通知记录
func (r *notificationRepository) ListByLink(ctx context.Context, linkID int64) ([]*domain.Notification, error) {
	var modelList []*model.Notification
	err := r.dao.Db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("sent_at DESC, id DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.Notification
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// DeleteByLink 物理删除链接的全部通知记录
func (r *notificationRepository) DeleteByLink(ctx context.Context, linkID int64) error {
	return r.dao.Db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Delete(&model.Notification{}).Error
}

// DeleteOlderThan 删除指定时间之前的通知记录，返回删除条数
func (r *notificationRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.dao.Db.WithContext(ctx).
		Where("sent_at < ?", timex.Time(before)).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
