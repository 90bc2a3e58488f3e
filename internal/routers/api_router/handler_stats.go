package api_router

import (
	"github.com/haierkeys/link-watcher-service/internal/app"
	pkgapp "github.com/haierkeys/link-watcher-service/pkg/app"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	apperrors "github.com/haierkeys/link-watcher-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// StatsHandler 统计 API 路由处理器
type StatsHandler struct {
	*Handler
}

// NewStatsHandler 创建 StatsHandler 实例
func NewStatsHandler(a *app.App) *StatsHandler {
	return &StatsHandler{
		Handler: NewHandler(a),
	}
}

// Dashboard 获取变更统计看板
// @Summary 获取变更统计看板
// @Description 汇总最近 7 天的变更次数、级别分布、最活跃链接与每日趋势
// @Tags 统计
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.StatsDTO} "成功"
// @Router /api/stats [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	stats, err := h.App.StatsService.Dashboard(ctx)
	if err != nil {
		h.logError(ctx, "StatsHandler.Dashboard", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(stats))
}
