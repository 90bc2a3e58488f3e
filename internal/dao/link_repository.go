// Package dao implements the data access layer
package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/model"
	"github.com/haierkeys/link-watcher-service/pkg/timex"

	"gorm.io/gorm"
)

// linkRepository implements domain.LinkRepository interface
type linkRepository struct {
	dao *Dao
}

// NewLinkRepository creates a LinkRepository instance
func NewLinkRepository(dao *Dao) domain.LinkRepository {
	return &linkRepository{dao: dao}
}

// toDomain converts database model to domain model
func (r *linkRepository) toDomain(m *model.Link) *domain.Link {
	if m == nil {
		return nil
	}
	var tags []string
	if m.Tags != "" {
		tags = strings.Split(m.Tags, ",")
	}
	return &domain.Link{
		ID:             m.ID,
		URL:            m.URL,
		Label:          m.Label,
		ProjectID:      m.ProjectID,
		Tags:           tags,
		CheckFrequency: domain.CheckFrequency(m.CheckFrequency),
		LastHash:       m.LastHash,
		LastCheckedAt:  m.LastCheckedAt.Time(),
		CreatedAt:      m.CreatedAt.Time(),
	}
}

// GetByID 根据ID获取链接
func (r *linkRepository) GetByID(ctx context.Context, id int64) (*domain.Link, error) {
	var m model.Link
	err := r.dao.Db.WithContext(ctx).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetByURL 根据URL获取链接
func (r *linkRepository) GetByURL(ctx context.Context, url string) (*domain.Link, error) {
	var m model.Link
	err := r.dao.Db.WithContext(ctx).
		Where("url = ?", url).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建链接
func (r *linkRepository) Create(ctx context.Context, link *domain.Link) (*domain.Link, error) {
	m := &model.Link{
		URL:            link.URL,
		Label:          link.Label,
		ProjectID:      link.ProjectID,
		Tags:           strings.Join(link.Tags, ","),
		CheckFrequency: string(link.CheckFrequency),
		LastHash:       link.LastHash,
		CreatedAt:      timex.Now(),
	}
	if err := r.dao.Db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateCheckMeta 更新链接的最近检查时间和内容指纹
func (r *linkRepository) UpdateCheckMeta(ctx context.Context, id int64, hash string, checkedAt time.Time) error {
	return r.dao.Db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_hash":       hash,
			"last_checked_at": timex.Time(checkedAt),
		}).Error
}

// List 获取链接列表，按创建时间倒序
func (r *linkRepository) List(ctx context.Context, projectID int64, tag string) ([]*domain.Link, error) {
	db := r.dao.Db.WithContext(ctx).Model(&model.Link{})
	if projectID > 0 {
		db = db.Where("project_id = ?", projectID)
	}

	var modelList []*model.Link
	if err := db.Order("created_at DESC, id DESC").Find(&modelList).Error; err != nil {
		return nil, err
	}

	var results []*domain.Link
	for _, m := range modelList {
		l := r.toDomain(m)
		// 标签过滤在应用层完成，标签以逗号串存储
		if tag != "" && !l.HasTag(tag) {
			continue
		}
		results = append(results, l)
	}
	return results, nil
}

// Count 获取链接总数
func (r *linkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.dao.Db.WithContext(ctx).Model(&model.Link{}).Count(&count).Error
	return count, err
}

// Delete 物理删除链接
func (r *linkRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.Db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Link{}).Error
}

// DetachProject 解除项目下所有链接的项目关联
func (r *linkRepository) DetachProject(ctx context.Context, projectID int64) error {
	return r.dao.Db.WithContext(ctx).
		Model(&model.Link{}).
		Where("project_id = ?", projectID).
		Update("project_id", 0).Error
}
