package service

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"sitecms/internal/model"
	"sitecms/internal/storage"
)

// Service 所有 Service 的聚合入口
type Service struct {
	User              EntityService[model.User]
	Project           EntityService[model.Project]
	Crew              EntityService[model.Crew]
	PerformanceMetric EntityService[model.PerformanceMetric]
	Activity          EntityService[model.Activity]
	Shipment          EntityService[model.Shipment]
	ScheduleStatus    EntityService[model.ScheduleStatus]
	TimeReport        EntityService[model.TimeReport]

	Report ReportService
	Export ExportService
	Import ImportService
}

// NewService 创建 Service 聚合，导入源目录从本地文件系统读取
func NewService(store storage.Provider, logger *zap.Logger) *Service {
	return &Service{
		User:              NewUserService(store, logger),
		Project:           NewProjectService(store, logger),
		Crew:              NewCrewService(store, logger),
		PerformanceMetric: NewPerformanceMetricService(store, logger),
		Activity:          NewActivityService(store, logger),
		Shipment:          NewShipmentService(store, logger),
		ScheduleStatus:    NewNotifyingScheduleStatusService(NewScheduleStatusService(store, logger), NewNotificationService(logger)),
		TimeReport:        NewTimeReportService(store, logger),

		Report: NewReportService(store, logger),
		Export: NewExportService(store, logger),
		Import: NewImportService(store, afero.NewOsFs(), logger),
	}
}
