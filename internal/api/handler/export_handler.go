package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"sitecms/internal/dto"
	"sitecms/internal/service"
	"sitecms/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportTimeReports 导出班组工时报告
// GET /api/v1/export/time-reports?crew_id=xxx
func (h *ExportHandler) ExportTimeReports(c *gin.Context) {
	crewID, err := dto.ParseID("crew_id", c.Query("crew_id"))
	if err != nil {
		response.BadRequest(c, codeBindFailed, "crew_id 不能为空或格式错误")
		return
	}

	buf, filename, err := h.exportSvc.ExportTimeReports(c.Request.Context(), crewID)
	if err != nil {
		handleError(c, err)
		return
	}
	sendFile(c, filename, contentTypeXLSX, buf)
}

// ExportActivities 导出项目施工活动日历
// GET /api/v1/export/activities?project_id=xxx
func (h *ExportHandler) ExportActivities(c *gin.Context) {
	projectID, err := dto.ParseID("project_id", c.Query("project_id"))
	if err != nil {
		response.BadRequest(c, codeBindFailed, "project_id 不能为空或格式错误")
		return
	}

	buf, filename, err := h.exportSvc.ExportActivities(c.Request.Context(), projectID)
	if err != nil {
		handleError(c, err)
		return
	}
	sendFile(c, filename, contentTypeICS, buf)
}

// sendFile 设置下载响应头并写入文件内容
func sendFile(c *gin.Context, filename, contentType string, buf *bytes.Buffer) {
	encodedFilename := url.PathEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
