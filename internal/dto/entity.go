package dto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sitecms/internal/model"
	pkgerrors "sitecms/pkg/errors"
)

// ── 实体写入请求 ──
// 请求体中的标识可省略：创建时生成新标识，更新时沿用路径中的标识。
// 携带与路径不同的标识时按整体替换语义改写记录标识。

// UserRequest 创建/更新用户
type UserRequest struct {
	UserID   string `json:"user_id"  binding:"omitempty,uuid"`
	Username string `json:"username" binding:"required,max=100"`
	Role     string `json:"role"     binding:"required"`
}

// ToModel 转换为实体，defaultID 用于请求未携带标识的情况
func (r *UserRequest) ToModel(defaultID uuid.UUID) (model.User, error) {
	var (
		v   model.User
		err error
	)
	if v.UserID, err = parseID("user_id", r.UserID, defaultID); err != nil {
		return v, err
	}
	if v.Role, err = model.ParseRole(r.Role); err != nil {
		return v, err
	}
	v.Username = r.Username
	return v, nil
}

// ProjectRequest 创建/更新项目
type ProjectRequest struct {
	ProjectID string `json:"project_id" binding:"omitempty,uuid"`
	Name      string `json:"name"       binding:"required,max=200"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
}

func (r *ProjectRequest) ToModel(defaultID uuid.UUID) (model.Project, error) {
	var (
		v   model.Project
		err error
	)
	if v.ProjectID, err = parseID("project_id", r.ProjectID, defaultID); err != nil {
		return v, err
	}
	if v.StartDate, err = model.ParseDate(r.StartDate); err != nil {
		return v, err
	}
	if v.EndDate, err = model.ParseDate(r.EndDate); err != nil {
		return v, err
	}
	v.Name = r.Name
	return v, nil
}

// CrewRequest 创建/更新班组
type CrewRequest struct {
	CrewID    string `json:"crew_id"    binding:"omitempty,uuid"`
	Name      string `json:"name"       binding:"required,max=100"`
	ProjectID string `json:"project_id" binding:"required,uuid"`
}

func (r *CrewRequest) ToModel(defaultID uuid.UUID) (model.Crew, error) {
	var (
		v   model.Crew
		err error
	)
	if v.CrewID, err = parseID("crew_id", r.CrewID, defaultID); err != nil {
		return v, err
	}
	if v.ProjectID, err = parseID("project_id", r.ProjectID, uuid.Nil); err != nil {
		return v, err
	}
	v.Name = r.Name
	return v, nil
}

// PerformanceMetricRequest 创建/更新班组绩效
type PerformanceMetricRequest struct {
	MetricID       string  `json:"metric_id"       binding:"omitempty,uuid"`
	CrewID         string  `json:"crew_id"         binding:"required,uuid"`
	Date           string  `json:"date"            binding:"required"`
	Productivity   float64 `json:"productivity"    binding:"min=0"`
	TasksCompleted int     `json:"tasks_completed" binding:"min=0"`
	TasksTotal     int     `json:"tasks_total"     binding:"min=0"`
	HoursWorked    float64 `json:"hours_worked"    binding:"min=0"`
}

func (r *PerformanceMetricRequest) ToModel(defaultID uuid.UUID) (model.PerformanceMetric, error) {
	var (
		v   model.PerformanceMetric
		err error
	)
	if v.MetricID, err = parseID("metric_id", r.MetricID, defaultID); err != nil {
		return v, err
	}
	if v.CrewID, err = parseID("crew_id", r.CrewID, uuid.Nil); err != nil {
		return v, err
	}
	if v.Date, err = model.ParseDate(r.Date); err != nil {
		return v, err
	}
	v.Productivity = r.Productivity
	v.TasksCompleted = r.TasksCompleted
	v.TasksTotal = r.TasksTotal
	v.HoursWorked = r.HoursWorked
	return v, nil
}

// ActivityRequest 创建/更新施工活动
type ActivityRequest struct {
	ActivityID  string `json:"activity_id" binding:"omitempty,uuid"`
	ProjectID   string `json:"project_id"  binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
	Constraint  string `json:"constraint"`
	StartDate   string `json:"start_date"  binding:"required"`
	EndDate     string `json:"end_date"    binding:"required"`
}

func (r *ActivityRequest) ToModel(defaultID uuid.UUID) (model.Activity, error) {
	var (
		v   model.Activity
		err error
	)
	if v.ActivityID, err = parseID("activity_id", r.ActivityID, defaultID); err != nil {
		return v, err
	}
	if v.ProjectID, err = parseID("project_id", r.ProjectID, uuid.Nil); err != nil {
		return v, err
	}
	if v.StartDate, err = model.ParseDate(r.StartDate); err != nil {
		return v, err
	}
	if v.EndDate, err = model.ParseDate(r.EndDate); err != nil {
		return v, err
	}
	v.Description = r.Description
	v.Constraint = r.Constraint
	return v, nil
}

// ShipmentRequest 创建/更新物资运输
type ShipmentRequest struct {
	ShipmentID    string `json:"shipment_id"    binding:"omitempty,uuid"`
	ProjectID     string `json:"project_id"     binding:"required,uuid"`
	Location      string `json:"location"       binding:"required,max=200"`
	Contents      string `json:"contents"       binding:"required"`
	Status        string `json:"status"         binding:"required"`
	ArrivalDate   string `json:"arrival_date"`
	CustomsDate   string `json:"customs_date"`
	LaydownDate   string `json:"laydown_date"`
	AvailableDate string `json:"available_date"`
}

func (r *ShipmentRequest) ToModel(defaultID uuid.UUID) (model.Shipment, error) {
	var (
		v   model.Shipment
		err error
	)
	if v.ShipmentID, err = parseID("shipment_id", r.ShipmentID, defaultID); err != nil {
		return v, err
	}
	if v.ProjectID, err = parseID("project_id", r.ProjectID, uuid.Nil); err != nil {
		return v, err
	}
	if v.Status, err = model.ParseShipmentStatus(r.Status); err != nil {
		return v, err
	}
	dates := []struct {
		dst *model.Date
		src string
	}{
		{&v.ArrivalDate, r.ArrivalDate},
		{&v.CustomsDate, r.CustomsDate},
		{&v.LaydownDate, r.LaydownDate},
		{&v.AvailableDate, r.AvailableDate},
	}
	for _, d := range dates {
		if err := d.dst.UnmarshalText([]byte(d.src)); err != nil {
			return v, err
		}
	}
	v.Location = r.Location
	v.Contents = r.Contents
	return v, nil
}

// ScheduleStatusRequest 创建/更新阶段进度
type ScheduleStatusRequest struct {
	StatusID    string `json:"status_id"    binding:"omitempty,uuid"`
	ProjectID   string `json:"project_id"   binding:"required,uuid"`
	Phase       string `json:"phase"        binding:"required,max=100"`
	Status      string `json:"status"       binding:"required"`
	LastUpdated string `json:"last_updated" binding:"required"`
	UserID      string `json:"user_id"      binding:"omitempty,uuid"` // 变更通知对象，可选
}

// NotifyUserID 变更通知对象，未提供时返回 uuid.Nil
func (r *ScheduleStatusRequest) NotifyUserID() (uuid.UUID, error) {
	if strings.TrimSpace(r.UserID) == "" {
		return uuid.Nil, nil
	}
	return ParseID("user_id", r.UserID)
}

func (r *ScheduleStatusRequest) ToModel(defaultID uuid.UUID) (model.ScheduleStatus, error) {
	var (
		v   model.ScheduleStatus
		err error
	)
	if v.StatusID, err = parseID("status_id", r.StatusID, defaultID); err != nil {
		return v, err
	}
	if v.ProjectID, err = parseID("project_id", r.ProjectID, uuid.Nil); err != nil {
		return v, err
	}
	if v.Status, err = model.ParseScheduleState(r.Status); err != nil {
		return v, err
	}
	if v.LastUpdated, err = model.ParseDate(r.LastUpdated); err != nil {
		return v, err
	}
	v.Phase = r.Phase
	return v, nil
}

// TimeReportRequest 创建/更新工时报告，user_id 为提交人，必须是工长
type TimeReportRequest struct {
	ReportID         string  `json:"report_id"         binding:"omitempty,uuid"`
	CrewID           string  `json:"crew_id"           binding:"required,uuid"`
	UserID           string  `json:"user_id"           binding:"required,uuid"`
	Date             string  `json:"date"              binding:"required"`
	MemberName       string  `json:"member_name"       binding:"required,max=100"`
	Task             string  `json:"task"              binding:"required"`
	Hours            float64 `json:"hours"             binding:"min=0,max=24"`
	EffortPercentage float64 `json:"effort_percentage" binding:"min=0,max=100"`
}

func (r *TimeReportRequest) ToModel(defaultID uuid.UUID) (model.TimeReport, error) {
	var (
		v   model.TimeReport
		err error
	)
	if v.ReportID, err = parseID("report_id", r.ReportID, defaultID); err != nil {
		return v, err
	}
	if v.CrewID, err = parseID("crew_id", r.CrewID, uuid.Nil); err != nil {
		return v, err
	}
	if v.UserID, err = parseID("user_id", r.UserID, uuid.Nil); err != nil {
		return v, err
	}
	if v.Date, err = model.ParseDate(r.Date); err != nil {
		return v, err
	}
	v.MemberName = r.MemberName
	v.Task = r.Task
	v.Hours = r.Hours
	v.EffortPercentage = r.EffortPercentage
	return v, nil
}

// parseID 解析标识文本；为空时使用 fallback，fallback 为 uuid.Nil 表示必填
func parseID(field, s string, fallback uuid.UUID) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if fallback == uuid.Nil {
			return uuid.Nil, fmt.Errorf("%w: %s 不能为空", pkgerrors.ErrValidation, field)
		}
		return fallback, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s 不是合法的 UUID %q", pkgerrors.ErrValidation, field, s)
	}
	return id, nil
}

// ParseID 解析路径或查询参数中的标识
func ParseID(field, s string) (uuid.UUID, error) {
	return parseID(field, s, uuid.Nil)
}
