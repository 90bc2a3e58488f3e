package service

import (
	"context"
	"net/url"

	"github.com/haierkeys/link-watcher-service/internal/domain"
	"github.com/haierkeys/link-watcher-service/internal/dto"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	"github.com/haierkeys/link-watcher-service/pkg/logger"

	"go.uber.org/zap"
)

// LinkService 定义链接管理服务接口
type LinkService interface {
	// Create 注册新的监控链接
	Create(ctx context.Context, params *dto.LinkPostRequest) (*dto.LinkDTO, error)

	// List 获取链接列表，可按项目和标签过滤
	List(ctx context.Context, projectID int64, tag string) ([]*dto.LinkDTO, error)

	// Get 根据ID获取链接
	Get(ctx context.Context, id int64) (*dto.LinkDTO, error)

	// Delete 删除链接及其全部检查与通知记录
	Delete(ctx context.Context, id int64) error
}

// linkService 实现 LinkService 接口
type linkService struct {
	repo       domain.LinkRepository
	checkRepo  domain.CheckRepository
	notifyRepo domain.NotificationRepository
	config     *MonitorServiceConfig
	logger     *zap.Logger
}

// NewLinkService 创建 LinkService 实例
func NewLinkService(
	repo domain.LinkRepository,
	checkRepo domain.CheckRepository,
	notifyRepo domain.NotificationRepository,
	config *ServiceConfig,
	log *zap.Logger,
) LinkService {
	if log == nil {
		log = zap.NewNop()
	}
	return &linkService{
		repo:       repo,
		checkRepo:  checkRepo,
		notifyRepo: notifyRepo,
		config:     &config.Monitor,
		logger:     log,
	}
}

// Create 注册新的监控链接
func (s *linkService) Create(ctx context.Context, params *dto.LinkPostRequest) (*dto.LinkDTO, error) {
	parsed, err := url.Parse(params.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, code.ErrorLinkInvalidURL
	}

	maxLinks := s.config.MaxLinks
	if maxLinks <= 0 {
		maxLinks = 8
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if count >= int64(maxLinks) {
		return nil, code.ErrorLinkLimitReached
	}

	existing, err := s.repo.GetByURL(ctx, params.URL)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if existing != nil {
		return nil, code.ErrorLinkURLExists
	}

	frequency := domain.CheckFrequency(params.CheckFrequency)
	if frequency == "" {
		frequency = domain.FrequencyManual
	}
	if !frequency.IsValid() {
		return nil, code.ErrorInvalidParams.WithDetails("invalid checkFrequency: " + params.CheckFrequency)
	}

	link, err := s.repo.Create(ctx, &domain.Link{
		URL:            params.URL,
		Label:          params.Label,
		ProjectID:      params.ProjectID,
		Tags:           params.Tags,
		CheckFrequency: frequency,
	})
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	s.logger.Info("link registered",
		zap.Int64(logger.FieldLinkID, link.ID),
		zap.String(logger.FieldURL, link.URL))

	return dto.NewLinkDTO(link), nil
}

// List 获取链接列表
func (s *linkService) List(ctx context.Context, projectID int64, tag string) ([]*dto.LinkDTO, error) {
	links, err := s.repo.List(ctx, projectID, tag)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	var out []*dto.LinkDTO
	for _, l := range links {
		out = append(out, dto.NewLinkDTO(l))
	}
	return out, nil
}

// Get 根据ID获取链接
func (s *linkService) Get(ctx context.Context, id int64) (*dto.LinkDTO, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if link == nil {
		return nil, code.ErrorLinkNotFound
	}
	return dto.NewLinkDTO(link), nil
}

// Delete 删除链接，检查记录和通知记录一并清理
func (s *linkService) Delete(ctx context.Context, id int64) error {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if link == nil {
		return code.ErrorLinkNotFound
	}

	if err := s.checkRepo.DeleteByLink(ctx, id); err != nil {
		return code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if err := s.notifyRepo.DeleteByLink(ctx, id); err != nil {
		return code.ErrorDBQueryFail.WithDetails(err.Error())
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return code.ErrorDBQueryFail.WithDetails(err.Error())
	}

	s.logger.Info("link deleted",
		zap.Int64(logger.FieldLinkID, id),
		zap.String(logger.FieldURL, link.URL))
	return nil
}
