package dto

import (
	"github.com/google/uuid"

	"sitecms/internal/model"
)

// ── 报表模块 ──

// ProjectProgressResponse 项目进度（按阶段进度统计）
type ProjectProgressResponse struct {
	ProjectID          uuid.UUID `json:"project_id"`
	ProjectName        string    `json:"project_name"`
	ProgressPercentage float64   `json:"progress_percentage"`
	TotalPhases        int       `json:"total_phases"`
	CompletedPhases    int       `json:"completed_phases"` // OnSchedule + Ahead
	ActivityCount      int       `json:"activity_count"`
}

// PerformanceReportRequest 班组绩效报表查询参数
// GET /api/v1/metrics/report?crew_id=&start_date=&end_date=
type PerformanceReportRequest struct {
	CrewID    string `form:"crew_id"    json:"crew_id"    binding:"required,uuid"`
	StartDate string `form:"start_date" json:"start_date" binding:"required"`
	EndDate   string `form:"end_date"   json:"end_date"   binding:"required"`
}

// Parse 解析为强类型参数
func (r *PerformanceReportRequest) Parse() (crewID uuid.UUID, start, end model.Date, err error) {
	if crewID, err = ParseID("crew_id", r.CrewID); err != nil {
		return
	}
	if start, err = model.ParseDate(r.StartDate); err != nil {
		return
	}
	end, err = model.ParseDate(r.EndDate)
	return
}

// PerformanceReportResponse 班组在日期区间（含两端）内的绩效汇总
type PerformanceReportResponse struct {
	CrewID              uuid.UUID  `json:"crew_id"`
	StartDate           model.Date `json:"start_date"`
	EndDate             model.Date `json:"end_date"`
	MetricCount         int        `json:"metric_count"`
	AvgProductivity     float64    `json:"avg_productivity"`
	TotalTasksCompleted int        `json:"total_tasks_completed"`
	TotalHoursWorked    float64    `json:"total_hours_worked"`
}

// ── 导入模块 ──

// ImportResponse CSV 导入结果
type ImportResponse struct {
	Entities []ImportEntityResult `json:"entities"`
}

// ImportEntityResult 单个实体文件的导入统计
type ImportEntityResult struct {
	Entity  string        `json:"entity"`
	File    string        `json:"file"`
	Missing bool          `json:"missing"` // 文件不存在，已跳过
	Total   int           `json:"total"`
	Created int           `json:"created"`
	Skipped int           `json:"skipped"` // 标识已存在
	Failed  int           `json:"failed"`
	Errors  []ImportError `json:"errors,omitempty"`
}

// ImportError 导入错误详情
type ImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Totals 汇总全部实体的统计
func (r *ImportResponse) Totals() (created, skipped, failed int) {
	for _, e := range r.Entities {
		created += e.Created
		skipped += e.Skipped
		failed += e.Failed
	}
	return
}
