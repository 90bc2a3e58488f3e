// Package routers 组装 HTTP 路由与中间件
package routers

import (
	"time"

	"github.com/haierkeys/link-watcher-service/internal/app"
	"github.com/haierkeys/link-watcher-service/internal/middleware"
	"github.com/haierkeys/link-watcher-service/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// NewRouter 创建公开 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo(app.Name, appContainer.Version().Version))
		if cfg.Tracer.Enabled {
			api.Use(middleware.Tracer(cfg.Tracer.Header))
		}
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLog())
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		linkHandler := api_router.NewLinkHandler(appContainer)
		projectHandler := api_router.NewProjectHandler(appContainer)
		checkHandler := api_router.NewCheckHandler(appContainer)
		notificationHandler := api_router.NewNotificationHandler(appContainer)
		statsHandler := api_router.NewStatsHandler(appContainer)
		statusHandler := api_router.NewStatusHandler(appContainer)
		summarizeHandler := api_router.NewSummarizeHandler(appContainer)

		api.POST("/links", linkHandler.Create)
		api.GET("/links", linkHandler.List)
		api.GET("/links/:id", linkHandler.Get)
		api.DELETE("/links/:id", linkHandler.Delete)

		api.POST("/projects", projectHandler.Create)
		api.GET("/projects", projectHandler.List)
		api.GET("/projects/:id", projectHandler.Get)
		api.PATCH("/projects/:id", projectHandler.Patch)
		api.DELETE("/projects/:id", projectHandler.Delete)

		api.POST("/checks/:linkId", checkHandler.Run)
		api.GET("/checks/:linkId", checkHandler.List)
		api.GET("/checks/:linkId/:checkId", checkHandler.Get)

		api.POST("/summarize", summarizeHandler.Summarize)

		api.POST("/notifications/test", notificationHandler.SendTest)
		api.GET("/notifications/:linkId", notificationHandler.ListByLink)

		api.GET("/stats", statsHandler.Dashboard)
		api.GET("/status", statusHandler.Probe)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
