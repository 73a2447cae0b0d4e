package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitecms/config"
	"sitecms/internal/api/handler"
	"sitecms/internal/api/middleware"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		h.User.Register(v1.Group("/users"))

		// 项目模块
		projects := v1.Group("/projects")
		h.Project.Register(projects)
		projects.GET("/:id/progress", h.Report.ProjectProgress)

		// 班组及其绩效、工时报告（?crew_id= 过滤）
		h.Crew.Register(v1.Group("/crews"))
		metrics := v1.Group("/metrics")
		metrics.GET("/report", h.Report.PerformanceReport)
		h.PerformanceMetric.Register(metrics)
		h.TimeReport.Register(v1.Group("/time-reports"))

		// 项目下属实体（?project_id= 过滤）
		h.Activity.Register(v1.Group("/activities"))
		h.Shipment.Register(v1.Group("/shipments"))
		h.ScheduleStatus.Register(v1.Group("/statuses"))

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/time-reports", h.Export.ExportTimeReports)
			export.GET("/activities", h.Export.ExportActivities)
		}
	}

	return r
}
