package handler

import (
	"sitecms/internal/dto"
	"sitecms/internal/model"
	"sitecms/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	User              *EntityHandler[model.User, dto.UserRequest, *dto.UserRequest]
	Project           *EntityHandler[model.Project, dto.ProjectRequest, *dto.ProjectRequest]
	Crew              *EntityHandler[model.Crew, dto.CrewRequest, *dto.CrewRequest]
	PerformanceMetric *EntityHandler[model.PerformanceMetric, dto.PerformanceMetricRequest, *dto.PerformanceMetricRequest]
	Activity          *EntityHandler[model.Activity, dto.ActivityRequest, *dto.ActivityRequest]
	Shipment          *EntityHandler[model.Shipment, dto.ShipmentRequest, *dto.ShipmentRequest]
	ScheduleStatus    *EntityHandler[model.ScheduleStatus, dto.ScheduleStatusRequest, *dto.ScheduleStatusRequest]
	TimeReport        *EntityHandler[model.TimeReport, dto.TimeReportRequest, *dto.TimeReportRequest]

	Report *ReportHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		User:              NewEntityHandler[model.User, dto.UserRequest](svc.User, ""),
		Project:           NewEntityHandler[model.Project, dto.ProjectRequest](svc.Project, ""),
		Crew:              NewEntityHandler[model.Crew, dto.CrewRequest](svc.Crew, "project_id"),
		PerformanceMetric: NewEntityHandler[model.PerformanceMetric, dto.PerformanceMetricRequest](svc.PerformanceMetric, "crew_id"),
		Activity:          NewEntityHandler[model.Activity, dto.ActivityRequest](svc.Activity, "project_id"),
		Shipment:          NewEntityHandler[model.Shipment, dto.ShipmentRequest](svc.Shipment, "project_id"),
		ScheduleStatus:    NewEntityHandler[model.ScheduleStatus, dto.ScheduleStatusRequest](svc.ScheduleStatus, "project_id"),
		TimeReport:        NewEntityHandler[model.TimeReport, dto.TimeReportRequest](svc.TimeReport, "crew_id"),

		Report: NewReportHandler(svc.Report),
		Export: NewExportHandler(svc.Export),
	}
}
