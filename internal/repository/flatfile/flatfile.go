package flatfile

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"sitecms/internal/model"
	"sitecms/internal/repository"
)

// New 创建一组读写 dir 下 CSV 文件的仓储，仓储只持有路径，可按请求新建
func New(fs afero.Fs, dir string) *repository.Repository {
	users := NewUserRepo(fs, dir)
	return &repository.Repository{
		User:              users,
		Project:           NewProjectRepo(fs, dir),
		Crew:              NewCrewRepo(fs, dir),
		PerformanceMetric: NewPerformanceMetricRepo(fs, dir),
		Activity:          NewActivityRepo(fs, dir),
		Shipment:          NewShipmentRepo(fs, dir),
		ScheduleStatus:    NewScheduleStatusRepo(fs, dir),
		TimeReport:        NewTimeReportRepo(fs, dir, users),
	}
}

type userRepo struct{ *table[model.User] }

// NewUserRepo 读写 users.csv
func NewUserRepo(fs afero.Fs, dir string) repository.UserRepository {
	return &userRepo{newTable(fs, dir, repository.UserEntity)}
}

func (r *userRepo) List(_ context.Context) ([]model.User, error) {
	return r.scoped(uuid.Nil)
}

type projectRepo struct{ *table[model.Project] }

// NewProjectRepo 读写 projects.csv
func NewProjectRepo(fs afero.Fs, dir string) repository.ProjectRepository {
	return &projectRepo{newTable(fs, dir, repository.ProjectEntity)}
}

func (r *projectRepo) List(_ context.Context) ([]model.Project, error) {
	return r.scoped(uuid.Nil)
}

type crewRepo struct{ *table[model.Crew] }

// NewCrewRepo 读写 crews.csv
func NewCrewRepo(fs afero.Fs, dir string) repository.CrewRepository {
	return &crewRepo{newTable(fs, dir, repository.CrewEntity)}
}

func (r *crewRepo) List(_ context.Context, projectID uuid.UUID) ([]model.Crew, error) {
	return r.scoped(projectID)
}

type performanceMetricRepo struct {
	*table[model.PerformanceMetric]
}

// NewPerformanceMetricRepo 读写 metrics.csv
func NewPerformanceMetricRepo(fs afero.Fs, dir string) repository.PerformanceMetricRepository {
	return &performanceMetricRepo{newTable(fs, dir, repository.PerformanceMetricEntity)}
}

func (r *performanceMetricRepo) List(_ context.Context, crewID uuid.UUID) ([]model.PerformanceMetric, error) {
	return r.scoped(crewID)
}

type activityRepo struct{ *table[model.Activity] }

// NewActivityRepo 读写 activities.csv
func NewActivityRepo(fs afero.Fs, dir string) repository.ActivityRepository {
	return &activityRepo{newTable(fs, dir, repository.ActivityEntity)}
}

func (r *activityRepo) List(_ context.Context, projectID uuid.UUID) ([]model.Activity, error) {
	return r.scoped(projectID)
}

type shipmentRepo struct{ *table[model.Shipment] }

// NewShipmentRepo 读写 shipments.csv
func NewShipmentRepo(fs afero.Fs, dir string) repository.ShipmentRepository {
	return &shipmentRepo{newTable(fs, dir, repository.ShipmentEntity)}
}

func (r *shipmentRepo) List(_ context.Context, projectID uuid.UUID) ([]model.Shipment, error) {
	return r.scoped(projectID)
}

type scheduleStatusRepo struct{ *table[model.ScheduleStatus] }

// NewScheduleStatusRepo 读写 statuses.csv
func NewScheduleStatusRepo(fs afero.Fs, dir string) repository.ScheduleStatusRepository {
	return &scheduleStatusRepo{newTable(fs, dir, repository.ScheduleStatusEntity)}
}

func (r *scheduleStatusRepo) List(_ context.Context, projectID uuid.UUID) ([]model.ScheduleStatus, error) {
	return r.scoped(projectID)
}

type timeReportRepo struct {
	*table[model.TimeReport]
	users repository.UserLookup
}

// NewTimeReportRepo 读写 reports.csv，提交人身份经 users 校验
func NewTimeReportRepo(fs afero.Fs, dir string, users repository.UserLookup) repository.TimeReportRepository {
	return &timeReportRepo{table: newTable(fs, dir, repository.TimeReportEntity), users: users}
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
	return r.scoped(crewID)
}
