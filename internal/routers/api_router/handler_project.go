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

// ProjectHandler 项目 API 路由处理器
// 项目用于对链接分组并承载告警配置
type ProjectHandler struct {
	*Handler
}

// NewProjectHandler 创建 ProjectHandler 实例
func NewProjectHandler(a *app.App) *ProjectHandler {
	return &ProjectHandler{
		Handler: NewHandler(a),
	}
}

// Create 创建项目
// @Summary 创建项目
// @Description 创建项目，未指定告警阈值时默认为 moderate
// @Tags 项目
// @Accept json
// @Produce json
// @Param params body dto.ProjectPostRequest true "项目参数"
// @Success 200 {object} pkgapp.Res{data=dto.ProjectDTO} "成功"
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ProjectPostRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ProjectHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	project, err := h.App.ProjectService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "ProjectHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(project))
}

// List 获取项目列表
// @Summary 获取项目列表
// @Tags 项目
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.ProjectDTO} "成功"
// @Router /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	projects, err := h.App.ProjectService.List(ctx)
	if err != nil {
		h.logError(ctx, "ProjectHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(projects))
}

// Get 获取项目详情
// @Summary 获取项目详情
// @Tags 项目
// @Produce json
// @Param id path int64 true "项目 ID"
// @Success 200 {object} pkgapp.Res{data=dto.ProjectDTO} "成功"
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ProjectIDRequest{}

	if err := c.ShouldBindUri(params); err != nil {
		h.App.Logger().Error("ProjectHandler.Get.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	ctx := c.Request.Context()

	project, err := h.App.ProjectService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "ProjectHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(project))
}

// Patch 局部更新项目
// @Summary 局部更新项目
// @Description 仅更新请求中出现的字段，告警配置支持逐项修改
// @Tags 项目
// @Accept json
// @Produce json
// @Param id path int64 true "项目 ID"
// @Param params body dto.ProjectPatchRequest true "更新参数"
// @Success 200 {object} pkgapp.Res{data=dto.ProjectDTO} "成功"
// @Router /api/projects/{id} [patch]
func (h *ProjectHandler) Patch(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uriParams := &dto.ProjectIDRequest{}
	if err := c.ShouldBindUri(uriParams); err != nil {
		h.App.Logger().Error("ProjectHandler.Patch.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	params := &dto.ProjectPatchRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ProjectHandler.Patch.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	project, err := h.App.ProjectService.Patch(ctx, uriParams.ID, params)
	if err != nil {
		h.logError(ctx, "ProjectHandler.Patch", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(project))
}

// Delete 删除项目
// @Summary 删除项目
// @Description 删除项目，项目下的链接保留并与项目解绑
// @Tags 项目
// @Produce json
// @Param id path int64 true "项目 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ProjectIDRequest{}

	if err := c.ShouldBindUri(params); err != nil {
		h.App.Logger().Error("ProjectHandler.Delete.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	ctx := c.Request.Context()

	if err := h.App.ProjectService.Delete(ctx, params.ID); err != nil {
		h.logError(ctx, "ProjectHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}
