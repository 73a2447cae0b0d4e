package handler

import (
	"github.com/gin-gonic/gin"

	"sitecms/internal/dto"
	"sitecms/internal/service"
	"sitecms/pkg/response"
)

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ProjectProgress 项目进度
// GET /api/v1/projects/:id/progress
func (h *ReportHandler) ProjectProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	resp, err := h.reportSvc.ProjectProgress(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// PerformanceReport 班组绩效报表
// GET /api/v1/metrics/report?crew_id=xxx&start_date=2025-06-01&end_date=2025-06-30
func (h *ReportHandler) PerformanceReport(c *gin.Context) {
	var req dto.PerformanceReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		handleBindError(c, err)
		return
	}

	crewID, start, end, err := req.Parse()
	if err != nil {
		handleError(c, err)
		return
	}

	resp, err := h.reportSvc.PerformanceReport(c.Request.Context(), crewID, start, end)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}
