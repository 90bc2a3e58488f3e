package service

import (
	"context"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/dto"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	"github.com/haierkeys/link-watcher-service/pkg/logger"
	"github.com/haierkeys/link-watcher-service/pkg/severity"

	"go.uber.org/zap"
)

// ProjectService 定义项目管理服务接口
// 项目聚合链接并承载告警配置
type ProjectService interface {
	// Create 创建项目，默认告警阈值为 moderate
	Create(ctx context.Context, params *dto.ProjectPostRequest) (*dto.ProjectDTO, error)

	// Get 根据ID获取项目
	Get(ctx context.Context, id int64) (*dto.ProjectDTO, error)

	// List 获取全部项目
	List(ctx context.Context) ([]*dto.ProjectDTO, error)

	// Patch 局部更新项目，nil 字段保持原值
	Patch(ctx context.Context, id int64, params *dto.ProjectPatchRequest) (*dto.ProjectDTO, error)

	// Delete 删除项目，项目下的链接保留并解除关联
	Delete(ctx context.Context, id int64) error
}

// projectService 实现 ProjectService 接口
type projectService struct {
	repo     domain.ProjectRepository
	linkRepo domain.LinkRepository
	logger   *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo domain.ProjectRepository, linkRepo domain.LinkRepository, log *zap.Logger) ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &projectService{
		repo:     repo,
		linkRepo: linkRepo,
		logger:   log,
	}
}

// applyAlertBody 把请求体中出现的告警字段套用到配置上
func applyAlertBody(alert *domain.AlertSettings, body *dto.AlertSettingsBody) error {
	if body == nil {
		return nil
	}
	if body.EmailEnabled != nil {
		alert.EmailEnabled = *body.EmailEnabled
	}
	if body.EmailTo != nil {
		alert.EmailTo = *body.EmailTo
	}
	if body.SlackEnabled != nil {
		alert.SlackEnabled = *body.SlackEnabled
	}
	if body.SlackWebhookURL != nil {
		alert.SlackWebhookURL = *body.SlackWebhookURL
	}
	if body.SeverityThreshold != nil {
		threshold, ok := severity.Parse(*body.SeverityThreshold)
		if !ok {
			return code.ErrorInvalidParams.WithDetails("invalid severityThreshold: " + *body.SeverityThreshold)
		}
		alert.SeverityThreshold = threshold
	}
	return nil
}

// Create 创建项目
func (s *projectService) Create(ctx context.Context, params *dto.ProjectPostRequest) (*dto.ProjectDTO, error) {
	existing, err := s.repo.GetByName(ctx, params.Name)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if existing != nil {
		return nil, code.ErrorProjectNameExists
	}

	alert := domain.AlertSettings{SeverityThreshold: severity.Moderate}
	if err := applyAlertBody(&alert, params.Alert); err != nil {
		return nil, err
	}

	project, err := s.repo.Create(ctx, &domain.Project{
		Name:        params.Name,
		Description: params.Description,
		Alert:       alert,
	})
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	s.logger.Info("project created",
		zap.Int64(logger.FieldProjectID, project.ID),
		zap.String("name", project.Name))

	return dto.NewProjectDTO(project), nil
}

// Get 根据ID获取项目
func (s *projectService) Get(ctx context.Context, id int64) (*dto.ProjectDTO, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if project == nil {
		return nil, code.ErrorProjectNotFound
	}
	return dto.NewProjectDTO(project), nil
}

// List 获取全部项目
func (s *projectService) List(ctx context.Context) ([]*dto.ProjectDTO, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	var out []*dto.ProjectDTO
	for _, p := range projects {
		out = append(out, dto.NewProjectDTO(p))
	}
	return out, nil
}

// Patch 局部更新项目
func (s *projectService) Patch(ctx context.Context, id int64, params *dto.ProjectPatchRequest) (*dto.ProjectDTO, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if project == nil {
		return nil, code.ErrorProjectNotFound
	}

	if params.Name != nil && *params.Name != project.Name {
		existing, err := s.repo.GetByName(ctx, *params.Name)
		if err != nil {
			return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
		}
		if existing != nil {
			return nil, code.ErrorProjectNameExists
		}
		project.Name = *params.Name
	}
	if params.Description != nil {
		project.Description = *params.Description
	}
	if err := applyAlertBody(&project.Alert, params.Alert); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	return dto.NewProjectDTO(project), nil
}

// Delete 删除项目，链接保留并解除关联
func (s *projectService) Delete(ctx context.Context, id int64) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if project == nil {
		return code.ErrorProjectNotFound
	}

	if err := s.linkRepo.DetachProject(ctx, id); err != nil {
		return code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	s.logger.Info("project deleted",
		zap.Int64(logger.FieldProjectID, id),
		zap.String("name", project.Name))
	return nil
}
