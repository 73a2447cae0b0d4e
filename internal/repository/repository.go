package repository

import (
	"context"

	"github.com/google/uuid"

	"sitecms/internal/model"
)

// CRUD 所有实体仓储共享的增删改查契约
//
// 约定（三种后端一致）：
//   - Create 以调用方生成的标识保存并原样返回；重复标识的行为由后端决定
//   - GetByID / Update / Delete 在标识不存在时返回包装 ErrNotFound 的错误
//   - Update 整体替换存储值，允许新值携带不同的标识而不重新建索引
type CRUD[T any] interface {
	Create(ctx context.Context, v T) (T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	Update(ctx context.Context, id uuid.UUID, v T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	CRUD[model.User]
	List(ctx context.Context) ([]model.User, error)
}

// ProjectRepository 项目数据访问接口
type ProjectRepository interface {
	CRUD[model.Project]
	List(ctx context.Context) ([]model.Project, error)
}

// CrewRepository 班组数据访问接口，projectID 为 uuid.Nil 时返回全部
type CrewRepository interface {
	CRUD[model.Crew]
	List(ctx context.Context, projectID uuid.UUID) ([]model.Crew, error)
}

// PerformanceMetricRepository 绩效数据访问接口，crewID 为 uuid.Nil 时返回全部
type PerformanceMetricRepository interface {
	CRUD[model.PerformanceMetric]
	List(ctx context.Context, crewID uuid.UUID) ([]model.PerformanceMetric, error)
}

// ActivityRepository 施工活动数据访问接口
type ActivityRepository interface {
	CRUD[model.Activity]
	List(ctx context.Context, projectID uuid.UUID) ([]model.Activity, error)
}

// ShipmentRepository 物资运输数据访问接口
type ShipmentRepository interface {
	CRUD[model.Shipment]
	List(ctx context.Context, projectID uuid.UUID) ([]model.Shipment, error)
}

// ScheduleStatusRepository 阶段进度数据访问接口
type ScheduleStatusRepository interface {
	CRUD[model.ScheduleStatus]
	List(ctx context.Context, projectID uuid.UUID) ([]model.ScheduleStatus, error)
}

// TimeReportRepository 工时报告数据访问接口
// Create / Update 额外要求报告中的 user_id 对应当前角色为工长的用户
type TimeReportRepository interface {
	CRUD[model.TimeReport]
	List(ctx context.Context, crewID uuid.UUID) ([]model.TimeReport, error)
}

// Repository 所有 Repository 的聚合入口，同一聚合内的仓储共享同一后端
type Repository struct {
	User              UserRepository
	Project           ProjectRepository
	Crew              CrewRepository
	PerformanceMetric PerformanceMetricRepository
	Activity          ActivityRepository
	Shipment          ShipmentRepository
	ScheduleStatus    ScheduleStatusRepository
	TimeReport        TimeReportRepository
}
