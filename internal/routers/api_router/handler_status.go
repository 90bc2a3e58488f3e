package api_router

import (
	"github.com/haierkeys/link-watcher-service/internal/app"
	pkgapp "github.com/haierkeys/link-watcher-service/pkg/app"
	"github.com/haierkeys/link-watcher-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// StatusHandler 服务状态 API 路由处理器
type StatusHandler struct {
	*Handler
}

// NewStatusHandler 创建 StatusHandler 实例
func NewStatusHandler(a *app.App) *StatusHandler {
	return &StatusHandler{
		Handler: NewHandler(a),
	}
}

// Probe 获取服务状态
// @Summary 获取服务状态
// @Description 探测数据库与摘要服务可用性，任一依赖不可用时整体降级为 degraded
// @Tags 系统
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.StatusDTO} "成功"
// @Router /api/status [get]
func (h *StatusHandler) Probe(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	status := h.App.StatusService.Probe(c.Request.Context())

	response.ToResponse(code.Success.WithData(status))
}
