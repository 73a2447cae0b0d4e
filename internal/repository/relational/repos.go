package relational

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitecms/internal/model"
	"sitecms/internal/repository"
)

// New 基于同一连接（或同一会话）创建全部仓储
func New(db *gorm.DB) *repository.Repository {
	users := NewUserRepo(db)
	return &repository.Repository{
		User:              users,
		Project:           NewProjectRepo(db),
		Crew:              NewCrewRepo(db),
		PerformanceMetric: NewPerformanceMetricRepo(db),
		Activity:          NewActivityRepo(db),
		Shipment:          NewShipmentRepo(db),
		ScheduleStatus:    NewScheduleStatusRepo(db),
		TimeReport:        NewTimeReportRepo(db, users),
	}
}

// ── User ──

type userRepo struct{ *table[model.User] }

// NewUserRepo 创建 UserRepository
func NewUserRepo(db *gorm.DB) repository.UserRepository {
	return &userRepo{&table[model.User]{
		db:     db,
		entity: repository.UserEntity,
		columns: func(v model.User) map[string]interface{} {
			return map[string]interface{}{
				"user_id":  v.UserID,
				"username": v.Username,
				"role":     v.Role,
			}
		},
	}}
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	return r.scoped(ctx, uuid.Nil)
}

// ── Project ──

type projectRepo struct{ *table[model.Project] }

// NewProjectRepo 创建 ProjectRepository
func NewProjectRepo(db *gorm.DB) repository.ProjectRepository {
	return &projectRepo{&table[model.Project]{
		db:     db,
		entity: repository.ProjectEntity,
		columns: func(v model.Project) map[string]interface{} {
			return map[string]interface{}{
				"project_id": v.ProjectID,
				"name":       v.Name,
				"start_date": v.StartDate,
				"end_date":   v.EndDate,
			}
		},
	}}
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	return r.scoped(ctx, uuid.Nil)
}

// ── Crew ──

type crewRepo struct{ *table[model.Crew] }

// NewCrewRepo 创建 CrewRepository
func NewCrewRepo(db *gorm.DB) repository.CrewRepository {
	return &crewRepo{&table[model.Crew]{
		db:     db,
		entity: repository.CrewEntity,
		columns: func(v model.Crew) map[string]interface{} {
			return map[string]interface{}{
				"crew_id":    v.CrewID,
				"name":       v.Name,
				"project_id": v.ProjectID,
			}
		},
	}}
}

func (r *crewRepo) List(ctx context.Context, projectID uuid.UUID) ([]model.Crew, error) {
	return r.scoped(ctx, projectID)
}

// ── PerformanceMetric ──

type performanceMetricRepo struct {
	*table[model.PerformanceMetric]
}

// NewPerformanceMetricRepo 创建 PerformanceMetricRepository
func NewPerformanceMetricRepo(db *gorm.DB) repository.PerformanceMetricRepository {
	return &performanceMetricRepo{&table[model.PerformanceMetric]{
		db:     db,
		entity: repository.PerformanceMetricEntity,
		columns: func(v model.PerformanceMetric) map[string]interface{} {
			return map[string]interface{}{
				"metric_id":       v.MetricID,
				"crew_id":         v.CrewID,
				"date":            v.Date,
				"productivity":    v.Productivity,
				"tasks_completed": v.TasksCompleted,
				"tasks_total":     v.TasksTotal,
				"hours_worked":    v.HoursWorked,
			}
		},
	}}
}

func (r *performanceMetricRepo) List(ctx context.Context, crewID uuid.UUID) ([]model.PerformanceMetric, error) {
	return r.scoped(ctx, crewID)
}

// ── Activity ──

type activityRepo struct{ *table[model.Activity] }

// NewActivityRepo 创建 ActivityRepository
func NewActivityRepo(db *gorm.DB) repository.ActivityRepository {
	return &activityRepo{&table[model.Activity]{
		db:     db,
		entity: repository.ActivityEntity,
		columns: func(v model.Activity) map[string]interface{} {
			return map[string]interface{}{
				"activity_id": v.ActivityID,
				"project_id":  v.ProjectID,
				"description": v.Description,
				"constraint":  v.Constraint,
				"start_date":  v.StartDate,
				"end_date":    v.EndDate,
			}
		},
	}}
}

func (r *activityRepo) List(ctx context.Context, projectID uuid.UUID) ([]model.Activity, error) {
	return r.scoped(ctx, projectID)
}

// ── Shipment ──

type shipmentRepo struct{ *table[model.Shipment] }

// NewShipmentRepo 创建 ShipmentRepository
func NewShipmentRepo(db *gorm.DB) repository.ShipmentRepository {
	return &shipmentRepo{&table[model.Shipment]{
		db:     db,
		entity: repository.ShipmentEntity,
		columns: func(v model.Shipment) map[string]interface{} {
			return map[string]interface{}{
				"shipment_id":    v.ShipmentID,
				"project_id":     v.ProjectID,
				"location":       v.Location,
				"contents":       v.Contents,
				"status":         v.Status,
				"arrival_date":   v.ArrivalDate,
				"customs_date":   v.CustomsDate,
				"laydown_date":   v.LaydownDate,
				"available_date": v.AvailableDate,
			}
		},
	}}
}

func (r *shipmentRepo) List(ctx context.Context, projectID uuid.UUID) ([]model.Shipment, error) {
	return r.scoped(ctx, projectID)
}

// ── ScheduleStatus ──

type scheduleStatusRepo struct{ *table[model.ScheduleStatus] }

// NewScheduleStatusRepo 创建 ScheduleStatusRepository
func NewScheduleStatusRepo(db *gorm.DB) repository.ScheduleStatusRepository {
	return &scheduleStatusRepo{&table[model.ScheduleStatus]{
		db:     db,
		entity: repository.ScheduleStatusEntity,
		columns: func(v model.ScheduleStatus) map[string]interface{} {
			return map[string]interface{}{
				"status_id":    v.StatusID,
				"project_id":   v.ProjectID,
				"phase":        v.Phase,
				"status":       v.Status,
				"last_updated": v.LastUpdated,
			}
		},
	}}
}

func (r *scheduleStatusRepo) List(ctx context.Context, projectID uuid.UUID) ([]model.ScheduleStatus, error) {
	return r.scoped(ctx, projectID)
}

// ── TimeReport ──

type timeReportRepo struct {
	*table[model.TimeReport]
	users repository.UserLookup
}

// NewTimeReportRepo 创建 TimeReportRepository，users 必须与本仓储同一后端
func NewTimeReportRepo(db *gorm.DB, users repository.UserLookup) repository.TimeReportRepository {
	return &timeReportRepo{
		table: &table[model.TimeReport]{
			db:     db,
			entity: repository.TimeReportEntity,
			columns: func(v model.TimeReport) map[string]interface{} {
				return map[string]interface{}{
					"report_id":         v.ReportID,
					"crew_id":           v.CrewID,
					"user_id":           v.UserID,
					"date":              v.Date,
					"member_name":       v.MemberName,
					"task":              v.Task,
					"hours":             v.Hours,
					"effort_percentage": v.EffortPercentage,
				}
			},
		},
		users: users,
	}
}

func (r *timeReportRepo) Create(ctx context.Context, report model.TimeReport) (model.TimeReport, error) {
	if err := repository.AuthorizeTimeReport(ctx, r.users, report.UserID); err != nil {
		return model.TimeReport{}, err
	}
	return r.table.Create(ctx, report)
}

// Update 先确认目标存在再校验提交人，目标缺失优先报告 ErrNotFound
func (r *timeReportRepo) Update(ctx context.Context, id uuid.UUID, report model.TimeReport) (model.TimeReport, error) {
	if _, err := r.table.GetByID(ctx, id); err != nil {
		return model.TimeReport{}, err
	}
	if err := repository.AuthorizeTimeReport(ctx, r.users, report.UserID); err != nil {
		return model.TimeReport{}, err
	}
	return r.table.Update(ctx, id, report)
}

func (r *timeReportRepo) List(ctx context.Context, crewID uuid.UUID) ([]model.TimeReport, error) {
	return r.scoped(ctx, crewID)
}
