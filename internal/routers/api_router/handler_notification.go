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

// NotificationHandler 通知 API 路由处理器
type NotificationHandler struct {
	*Handler
}

// NewNotificationHandler 创建 NotificationHandler 实例
func NewNotificationHandler(a *app.App) *NotificationHandler {
	return &NotificationHandler{
		Handler: NewHandler(a),
	}
}

// SendTest 发送测试通知
// @Summary 发送测试通知
// @Description 向指定渠道发送预置的测试消息，用于验证告警配置，不写入通知记录
// @Tags 通知
// @Accept json
// @Produce json
// @Param params body dto.NotificationTestRequest true "测试参数"
// @Success 200 {object} pkgapp.Res{data=dto.NotificationTestResultDTO} "成功"
// @Router /api/notifications/test [post]
func (h *NotificationHandler) SendTest(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NotificationTestRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NotificationHandler.SendTest.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.NotifyService.SendTest(ctx, params.EmailTo, params.SlackWebhookURL)
	if err != nil {
		h.logError(ctx, "NotificationHandler.SendTest", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// ListByLink 获取链接的通知记录
// @Summary 获取链接的通知记录
// @Tags 通知
// @Produce json
// @Param linkId path int64 true "链接 ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.NotificationDTO} "成功"
// @Router /api/notifications/{linkId} [get]
func (h *NotificationHandler) ListByLink(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	params := &dto.CheckLinkIDRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		h.App.Logger().Error("NotificationHandler.ListByLink.BindUri err", zap.Error(err))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	ctx := c.Request.Context()

	records, err := h.App.NotifyService.ListByLink(ctx, params.LinkID)
	if err != nil {
		h.logError(ctx, "NotificationHandler.ListByLink", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(records))
}
