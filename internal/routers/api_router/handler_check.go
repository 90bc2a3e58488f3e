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

// CheckHandler 检查 API 路由处理器
// 负责触发链接检查与查询历史检查记录
type CheckHandler struct {
	*Handler
}

// NewCheckHandler 创建 CheckHandler 实例
func NewCheckHandler(a *app.App) *CheckHandler {
	return &CheckHandler{
		Handler: NewHandler(a),
	}
}

// Run 触发一次链接检查
// @Summary 触发一次链接检查
// @Description 抓取页面并与上次快照对比，force 为 true 时跳过指纹短路
// @Tags 检查
// @Accept json
// @Produce json
// @Param linkId path int64 true "链接 ID"
// @Param params body dto.CheckPostRequest false "检查参数"
// @Success 200 {object} pkgapp.Res{data=dto.CheckResultDTO} "成功"
// @Router /api/checks/{linkId} [post]
func (h *CheckHandler) Run(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	uriParams := &dto.CheckLinkIDRequest{}
	if err := c.ShouldBindUri(uriParams); err != nil {
		h.App.Logger().Error("CheckHandler.Run.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	// force 参数可省略，空请求体按默认值处理
	params := &dto.CheckPostRequest{}
	_ = c.ShouldBind(params)

	ctx := c.Request.Context()

	result, err := h.App.CheckService.Run(ctx, uriParams.LinkID, params.Force)
	if err != nil {
		h.logError(ctx, "CheckHandler.Run", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// List 获取历史检查记录
// @Summary 获取历史检查记录
// @Description 获取链接保留的检查记录，最新在前
// @Tags 检查
// @Produce json
// @Param linkId path int64 true "链接 ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.CheckDTO} "成功"
// @Router /api/checks/{linkId} [get]
func (h *CheckHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	params := &dto.CheckLinkIDRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		h.App.Logger().Error("CheckHandler.List.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	ctx := c.Request.Context()

	checks, err := h.App.CheckService.List(ctx, params.LinkID)
	if err != nil {
		h.logError(ctx, "CheckHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(checks))
}

// Get 获取单条检查记录
// @Summary 获取单条检查记录
// @Tags 检查
// @Produce json
// @Param linkId path int64 true "链接 ID"
// @Param checkId path int64 true "检查记录 ID"
// @Success 200 {object} pkgapp.Res{data=dto.CheckDTO} "成功"
// @Router /api/checks/{linkId}/{checkId} [get]
func (h *CheckHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	params := &dto.CheckGetRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		h.App.Logger().Error("CheckHandler.Get.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	ctx := c.Request.Context()

	check, err := h.App.CheckService.Get(ctx, params.LinkID, params.CheckID)
	if err != nil {
		h.logError(ctx, "CheckHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(check))
}
