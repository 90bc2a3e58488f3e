package dao

import (
	"context"
	"errors"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/model"
	"github.com/haierkeys/link-watcher-service/pkg/severity"
	"github.com/haierkeys/link-watcher-service/pkg/timex"

	"gorm.io/gorm"
)

// projectRepository implements domain.ProjectRepository interface
type projectRepository struct {
	dao *Dao
}

// NewProjectRepository creates a ProjectRepository instance
func NewProjectRepository(dao *Dao) domain.ProjectRepository {
	return &projectRepository{dao: dao}
}

// toDomain converts database model to domain model
func (r *projectRepository) toDomain(m *model.Project) *domain.Project {
	if m == nil {
		return nil
	}
	threshold, ok := severity.Parse(m.SeverityThreshold)
	if !ok {
		threshold = severity.Moderate
	}
	return &domain.Project{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Alert: domain.AlertSettings{
			EmailEnabled:      m.EmailEnabled,
			EmailTo:           m.EmailTo,
			SlackEnabled:      m.SlackEnabled,
			SlackWebhookURL:   m.SlackWebhookURL,
			SeverityThreshold: threshold,
		},
		CreatedAt: m.CreatedAt.Time(),
	}
}

// GetByID 根据ID获取项目
func (r *projectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var m model.Project
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

// GetByName 根据名称获取项目
func (r *projectRepository) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	var m model.Project
	err := r.dao.Db.WithContext(ctx).
		Where("name = ?", name).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建项目
func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	m := &model.Project{
		Name:              project.Name,
		Description:       project.Description,
		EmailEnabled:      project.Alert.EmailEnabled,
		EmailTo:           project.Alert.EmailTo,
		SlackEnabled:      project.Alert.SlackEnabled,
		SlackWebhookURL:   project.Alert.SlackWebhookURL,
		SeverityThreshold: project.Alert.SeverityThreshold.String(),
		CreatedAt:         timex.Now(),
	}
	if err := r.dao.Db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 更新项目（含告警配置）
func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.dao.Db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{
			"name":               project.Name,
			"description":        project.Description,
			"email_enabled":      project.Alert.EmailEnabled,
			"email_to":           project.Alert.EmailTo,
			"slack_enabled":      project.Alert.SlackEnabled,
			"slack_webhook_url":  project.Alert.SlackWebhookURL,
			"severity_threshold": project.Alert.SeverityThreshold.String(),
		}).Error
}

// List 获取全部项目，按创建时间倒序
func (r *projectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	var modelList []*model.Project
	err := r.dao.Db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	var results []*domain.Project
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// Delete 物理删除项目
func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.Db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Project{}).Error
}
