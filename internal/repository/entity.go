package repository

import (
	"fmt"

	"github.com/google/uuid"

	"sitecms/internal/model"
	pkgerrors "sitecms/pkg/errors"
)

// Entity 实体在各后端间共享的存储描述
type Entity[T any] struct {
	Name         string // 错误信息与日志中的实体名
	IDColumn     string // 主键列（关系表与平面文件表头一致）
	ParentColumn string // 上级标识列，顶层实体为空
	File         string // 平面文件名
	ID           func(T) uuid.UUID
	Parent       func(T) uuid.UUID
	Validate     func(T) error // 写入前校验，可为空
}

// HasParent 是否为隶属于上级实体的子实体
func (e Entity[T]) HasParent() bool { return e.Parent != nil }

// Check 执行写入前校验，失败时返回包装 ErrValidation 的错误
func (e Entity[T]) Check(v T) error {
	if e.Validate == nil {
		return nil
	}
	return e.Validate(v)
}

func validEnum(ok bool, kind, value string) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: 非法的 %s %q", pkgerrors.ErrValidation, kind, value)
}

var (
	UserEntity = Entity[model.User]{
		Name: "user", IDColumn: "user_id", File: "users.csv",
		ID:       func(v model.User) uuid.UUID { return v.UserID },
		Validate: func(v model.User) error { return validEnum(v.Role.Valid(), "role", string(v.Role)) },
	}

	ProjectEntity = Entity[model.Project]{
		Name: "project", IDColumn: "project_id", File: "projects.csv",
		ID: func(v model.Project) uuid.UUID { return v.ProjectID },
	}

	CrewEntity = Entity[model.Crew]{
		Name: "crew", IDColumn: "crew_id", ParentColumn: "project_id", File: "crews.csv",
		ID:     func(v model.Crew) uuid.UUID { return v.CrewID },
		Parent: func(v model.Crew) uuid.UUID { return v.ProjectID },
	}

	PerformanceMetricEntity = Entity[model.PerformanceMetric]{
		Name: "performance metric", IDColumn: "metric_id", ParentColumn: "crew_id", File: "metrics.csv",
		ID:     func(v model.PerformanceMetric) uuid.UUID { return v.MetricID },
		Parent: func(v model.PerformanceMetric) uuid.UUID { return v.CrewID },
	}

	ActivityEntity = Entity[model.Activity]{
		Name: "activity", IDColumn: "activity_id", ParentColumn: "project_id", File: "activities.csv",
		ID:     func(v model.Activity) uuid.UUID { return v.ActivityID },
		Parent: func(v model.Activity) uuid.UUID { return v.ProjectID },
	}

	ShipmentEntity = Entity[model.Shipment]{
		Name: "shipment", IDColumn: "shipment_id", ParentColumn: "project_id", File: "shipments.csv",
		ID:     func(v model.Shipment) uuid.UUID { return v.ShipmentID },
		Parent: func(v model.Shipment) uuid.UUID { return v.ProjectID },
		Validate: func(v model.Shipment) error {
			return validEnum(v.Status.Valid(), "shipment status", string(v.Status))
		},
	}

	ScheduleStatusEntity = Entity[model.ScheduleStatus]{
		Name: "schedule status", IDColumn: "status_id", ParentColumn: "project_id", File: "statuses.csv",
		ID:     func(v model.ScheduleStatus) uuid.UUID { return v.StatusID },
		Parent: func(v model.ScheduleStatus) uuid.UUID { return v.ProjectID },
		Validate: func(v model.ScheduleStatus) error {
			return validEnum(v.Status.Valid(), "schedule state", string(v.Status))
		},
	}

	TimeReportEntity = Entity[model.TimeReport]{
		Name: "time report", IDColumn: "report_id", ParentColumn: "crew_id", File: "reports.csv",
		ID:     func(v model.TimeReport) uuid.UUID { return v.ReportID },
		Parent: func(v model.TimeReport) uuid.UUID { return v.CrewID },
	}
)
