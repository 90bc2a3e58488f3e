package api_router

import (
	"time"

	"github.com/haierkeys/link-watcher-service/internal/app"
	"github.com/haierkeys/link-watcher-service/internal/dto"
	pkgapp "github.com/haierkeys/link-watcher-service/pkg/app"
	"github.com/haierkeys/link-watcher-service/pkg/code"
	"github.com/haierkeys/link-watcher-service/pkg/summarizer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SummarizeHandler 摘要直通 API 路由处理器
// 将调用方提供的差异片段直接交给语义摘要服务，不产生检查记录
type SummarizeHandler struct {
	*Handler
}

// NewSummarizeHandler 创建 SummarizeHandler 实例
func NewSummarizeHandler(a *app.App) *SummarizeHandler {
	return &SummarizeHandler{
		Handler: NewHandler(a),
	}
}

// Summarize 生成变更摘要
// @Summary 生成变更摘要
// @Description 对给定的差异片段生成摘要与级别判定，摘要服务不可用时返回固定回退结果
// @Tags 摘要
// @Accept json
// @Produce json
// @Param params body dto.SummarizePostRequest true "摘要参数"
// @Success 200 {object} pkgapp.Res{data=dto.SummarizeResultDTO} "成功"
// @Router /api/summarize [post]
func (h *SummarizeHandler) Summarize(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.SummarizePostRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("SummarizeHandler.Summarize.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	result := h.App.Summarizer().Summarize(c.Request.Context(), summarizer.Request{
		URL:         params.URL,
		CheckedAt:   time.Now().Format(time.RFC3339),
		Snippets:    params.Snippets,
		DiffSummary: params.DiffSummary,
	})

	response.ToResponse(code.Success.WithData(&dto.SummarizeResultDTO{
		Summary:    result.Summary,
		Severity:   result.SeverityLabel,
		Highlights: dto.NewHighlightDTOs(result.Highlights),
	}))
}
