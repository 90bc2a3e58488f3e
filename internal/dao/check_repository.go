package dao

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/model"
	"github.com/haierkeys/link-watcher-service/pkg/diff"
	"github.com/haierkeys/link-watcher-service/pkg/severity"
	"github.com/haierkeys/link-watcher-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// checkRepository implements domain.CheckRepository interface
type checkRepository struct {
	dao *Dao
}

// NewCheckRepository creates a CheckRepository instance
func NewCheckRepository(dao *Dao) domain.CheckRepository {
	return &checkRepository{dao: dao}
}

// toDomain converts database model to domain model
// JSON 列解析失败时降级为空值并告警
func (r *checkRepository) toDomain(m *model.Check) *domain.Check {
	if m == nil {
		return nil
	}

	var snippets []diff.Snippet
	if m.Snippets != "" {
		if err := json.Unmarshal([]byte(m.Snippets), &snippets); err != nil {
			r.dao.logger.Warn("invalid snippets column",
				zap.Int64("checkId", m.ID), zap.Error(err))
		}
	}

	var triggers []string
	if m.KeywordTriggers != "" {
		if err := json.Unmarshal([]byte(m.KeywordTriggers), &triggers); err != nil {
			r.dao.logger.Warn("invalid keyword_triggers column",
				zap.Int64("checkId", m.ID), zap.Error(err))
		}
	}

	sev, ok := severity.Parse(m.Severity)
	if !ok {
		sev = severity.Minor
	}

	return &domain.Check{
		ID:              m.ID,
		LinkID:          m.LinkID,
		ChangeType:      domain.ChangeType(m.ChangeType),
		Severity:        sev,
		Summary:         m.Summary,
		Snapshot:        m.Snapshot,
		ContentHash:     m.ContentHash,
		DiffHTML:        m.DiffHTML,
		Snippets:        snippets,
		KeywordTriggers: triggers,
		Error:           m.Error,
		CheckedAt:       m.CheckedAt.Time(),
		CreatedAt:       m.CreatedAt.Time(),
	}
}

// Create 创建检查记录
func (r *checkRepository) Create(ctx context.Context, check *domain.Check) (*domain.Check, error) {
	snippets, err := json.Marshal(check.Snippets)
	if err != nil {
		return nil, err
	}
	triggers, err := json.Marshal(check.KeywordTriggers)
	if err != nil {
		return nil, err
	}

	m := &model.Check{
		LinkID:          check.LinkID,
		ChangeType:      string(check.ChangeType),
		Severity:        check.Severity.String(),
		Summary:         check.Summary,
		Snapshot:        check.Snapshot,
		ContentHash:     check.ContentHash,
		DiffHTML:        check.DiffHTML,
		Snippets:        string(snippets),
		KeywordTriggers: string(triggers),
		Error:           check.Error,
		CheckedAt:       timex.Time(check.CheckedAt),
		CreatedAt:       timex.Now(),
	}
	if err := r.dao.Db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// GetByID 根据ID获取指定链接下的检查记录
func (r *checkRepository) GetByID(ctx context.Context, linkID, checkID int64) (*domain.Check, error) {
	var m model.Check
	err := r.dao.Db.WithContext(ctx).
		Where("id = ? AND link_id = ?", checkID, linkID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetLatestByLink 获取链接的最新一条检查记录
func (r *checkRepository) GetLatestByLink(ctx context.Context, linkID int64) (*domain.Check, error) {
	var m model.Check
	err := r.dao.Db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("checked_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetLatestContentByLink 获取链接最新一条非失败的检查记录
func (r *checkRepository) GetLatestContentByLink(ctx context.Context, linkID int64) (*domain.Check, error) {
	var m model.Check
	err := r.dao.Db.WithContext(ctx).
		Where("link_id = ? AND change_type <> ?", linkID, string(domain.ChangeTypeError)).
		Order("checked_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// ListByLink 获取链接的检查记录，按检查时间倒序
func (r *checkRepository) ListByLink(ctx context.Context, linkID int64, limit int) ([]*domain.Check, error) {
	var modelList []*model.Check
	db := r.dao.Db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("checked_at DESC, id DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&modelList).Error; err != nil {
		return nil, err
	}

	var results []*domain.Check
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// PruneByLink 只保留链接最新的 keep 条检查记录，删除其余
func (r *checkRepository) PruneByLink(ctx context.Context, linkID int64, keep int) error {
	if keep <= 0 {
		return r.DeleteByLink(ctx, linkID)
	}

	var keepIDs []int64
	err := r.dao.Db.WithContext(ctx).
		Model(&model.Check{}).
		Where("link_id = ?", linkID).
		Order("checked_at DESC, id DESC").
		Limit(keep).
		Pluck("id", &keepIDs).Error
	if err != nil {
		return err
	}
	if len(keepIDs) == 0 {
		return nil
	}

	return r.dao.Db.WithContext(ctx).
		Where("link_id = ? AND id NOT IN ?", linkID, keepIDs).
		Delete(&model.Check{}).Error
}

// ListChangesSince 获取指定时间之后产生变更的检查记录
func (r *checkRepository) ListChangesSince(ctx context.Context, since time.Time) ([]*domain.Check, error) {
	var modelList []*model.Check
	err := r.dao.Db.WithContext(ctx).
		Where("checked_at >= ? AND change_type IN ?",
			timex.Time(since),
			[]string{
				string(domain.ChangeTypeAdded),
				string(domain.ChangeTypeModified),
				string(domain.ChangeTypeRemoved),
			}).
		Order("checked_at DESC, id DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.Check
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// DeleteByLink 物理删除链接的全部检查记录
func (r *checkRepository) DeleteByLink(ctx context.Context, linkID int64) error {
	return r.dao.Db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Delete(&model.Check{}).Error
}
