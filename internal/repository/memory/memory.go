package memory

import (
	"context"

	"github.com/google/uuid"

	"sitecms/internal/model"
	"sitecms/internal/repository"
)

// New 创建一组共享同一进程内存储的仓储，工时报告仓储注入本实例的用户仓储
func New() *repository.Repository {
	users := NewUserRepo()
	return &repository.Repository{
		User:              users,
		Project:           NewProjectRepo(),
		Crew:              NewCrewRepo(),
		PerformanceMetric: NewPerformanceMetricRepo(),
		Activity:          NewActivityRepo(),
		Shipment:          NewShipmentRepo(),
		ScheduleStatus:    NewScheduleStatusRepo(),
		TimeReport:        NewTimeReportRepo(users),
	}
}

// ── User ──

type userRepo struct{ *table[model.User] }

// NewUserRepo 创建内存 UserRepository
func NewUserRepo() repository.UserRepository {
	return &userRepo{newTable(repository.UserEntity)}
}

func (r *userRepo) List(_ context.Context) ([]model.User, error) {
	return r.scoped(uuid.Nil), nil
}

// ── Project ──

type projectRepo struct{ *table[model.Project] }

// NewProjectRepo 创建内存 ProjectRepository
func NewProjectRepo() repository.ProjectRepository {
	return &projectRepo{newTable(repository.ProjectEntity)}
}

func (r *projectRepo) List(_ context.Context) ([]model.Project, error) {
	return r.scoped(uuid.Nil), nil
}

// ── Crew ──

type crewRepo struct{ *table[model.Crew] }

// NewCrewRepo 创建内存 CrewRepository
func NewCrewRepo() repository.CrewRepository {
	return &crewRepo{newTable(repository.CrewEntity)}
}

func (r *crewRepo) List(_ context.Context, projectID uuid.UUID) ([]model.Crew, error) {
	return r.scoped(projectID), nil
}

// ── PerformanceMetric ──

type performanceMetricRepo struct {
	*table[model.PerformanceMetric]
}

// NewPerformanceMetricRepo 创建内存 PerformanceMetricRepository
func NewPerformanceMetricRepo() repository.PerformanceMetricRepository {
	return &performanceMetricRepo{newTable(repository.PerformanceMetricEntity)}
}

func (r *performanceMetricRepo) List(_ context.Context, crewID uuid.UUID) ([]model.PerformanceMetric, error) {
	return r.scoped(crewID), nil
}

// ── Activity ──

type activityRepo struct{ *table[model.Activity] }

// NewActivityRepo 创建内存 ActivityRepository
func NewActivityRepo() repository.ActivityRepository {
	return &activityRepo{newTable(repository.ActivityEntity)}
}

func (r *activityRepo) List(_ context.Context, projectID uuid.UUID) ([]model.Activity, error) {
	return r.scoped(projectID), nil
}

// ── Shipment ──

type shipmentRepo struct{ *table[model.Shipment] }

// NewShipmentRepo 创建内存 ShipmentRepository
func NewShipmentRepo() repository.ShipmentRepository {
	return &shipmentRepo{newTable(repository.ShipmentEntity)}
}

func (r *shipmentRepo) List(_ context.Context, projectID uuid.UUID) ([]model.Shipment, error) {
	return r.scoped(projectID), nil
}

// ── ScheduleStatus ──

type scheduleStatusRepo struct{ *table[model.ScheduleStatus] }

// NewScheduleStatusRepo 创建内存 ScheduleStatusRepository
func NewScheduleStatusRepo() repository.ScheduleStatusRepository {
	return &scheduleStatusRepo{newTable(repository.ScheduleStatusEntity)}
}

func (r *scheduleStatusRepo) List(_ context.Context, projectID uuid.UUID) ([]model.ScheduleStatus, error) {
	return r.scoped(projectID), nil
}

// ── TimeReport ──

type timeReportRepo struct {
	*table[model.TimeReport]
	users repository.UserLookup
}

// NewTimeReportRepo 创建内存 TimeReportRepository，users 用于工长身份校验
func NewTimeReportRepo(users repository.UserLookup) repository.TimeReportRepository {
	return &timeReportRepo{table: newTable(repository.TimeReportEntity), users: users}
}

func (r *timeReportRepo) Create(ctx context.Context, report model.TimeReport) (model.TimeReport, error) {
	if err := repository.AuthorizeTimeReport(ctx, r.users, report.UserID); err != nil {
		return model.TimeReport{}, err
	}
	return r.table.Create(ctx, report)
}

func (r *timeReportRepo) Update(ctx context.Context, id uuid.UUID, report model.TimeReport) (model.TimeReport, error) {
	if _, err := r.table.GetByID(ctx, id); err != nil {
		return model.TimeReport{}, err
	}
	if err := repository.AuthorizeTimeReport(ctx, r.users, report.UserID); err != nil {
		return model.TimeReport{}, err
	}
	return r.table.Update(ctx, id, report)
}

func (r *timeReportRepo) List(_ context.Context, crewID uuid.UUID) ([]model.TimeReport, error) {
	return r.scoped(crewID), nil
}
