package api_router

import (
	"github.com/haierkeys/link-watcher-service/internal/app"
	"github.com/haierkeys/link-watcher-service/internal/dto"
	pkgapp "github.com/haierkeys/link-watcher-service/pkg/app"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	apperrors "github.com/haierkeys/link-watcher-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LinkHandler 监控链接 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type LinkHandler struct {
	*Handler
}

// NewLinkHandler 创建 LinkHandler 实例
func NewLinkHandler(a *app.App) *LinkHandler {
	return &LinkHandler{
		Handler: NewHandler(a),
	}
}

// Create 注册监控链接
// @Summary 注册监控链接
// @Description 注册一个需要监控变更的页面地址，URL 不可重复
// @Tags 链接
// @Accept json
// @Produce json
// @Param params body dto.LinkPostRequest true "链接参数"
// @Success 200 {object} pkgapp.Res{data=dto.LinkDTO} "成功"
// @Router /api/links [post]
func (h *LinkHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkPostRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("LinkHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	link, err := h.App.LinkService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "LinkHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(link))
}

// List 获取链接列表
// @Summary 获取链接列表
// @Description 获取所有监控链接，可按项目和标签过滤
// @Tags 链接
// @Produce json
// @Param projectId query int64 false "项目 ID"
// @Param tag query string false "标签"
// @Success 200 {object} pkgapp.Res{data=[]dto.LinkDTO} "成功"
// @Router /api/links [get]
func (h *LinkHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("LinkHandler.List.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	links, err := h.App.LinkService.List(ctx, params.ProjectID, params.Tag)
	if err != nil {
		h.logError(ctx, "LinkHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(links))
}

// Get 获取链接详情
// @Summary 获取链接详情
// @Description 根据链接 ID 获取监控链接详情
// @Tags 链接
// @Produce json
// @Param id path int64 true "链接 ID"
// @Success 200 {object} pkgapp.Res{data=dto.LinkDTO} "成功"
// @Router /api/links/{id} [get]
func (h *LinkHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkIDRequest{}

	if err := c.ShouldBindUri(params); err != nil {
		h.App.Logger().Error("LinkHandler.Get.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	ctx := c.Request.Context()

	link, err := h.App.LinkService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "LinkHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(link))
}

// Delete 删除链接
// @Summary 删除链接
// @Description 删除监控链接及其全部检查与通知记录
// @Tags 链接
// @Produce json
// @Param id path int64 true "链接 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/links/{id} [delete]
func (h *LinkHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkIDRequest{}

	if err := c.ShouldBindUri(params); err != nil {
		h.App.Logger().Error("LinkHandler.Delete.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	ctx := c.Request.Context()

	if err := h.App.LinkService.Delete(ctx, params.ID); err != nil {
		h.logError(ctx, "LinkHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}
