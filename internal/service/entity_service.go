package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitecms/internal/model"
	"sitecms/internal/repository"
	"sitecms/internal/storage"
	pkgerrors "sitecms/pkg/errors"
)

// EntityService 单个实体的增删改查业务接口
//
// 每次调用通过 storage.Provider 获取一组仓储，调用结束即释放。
// 仓储返回的分类错误（ErrNotFound、ErrPermissionDenied 等）原样向上传递，
// 其余错误记录日志后返回。
type EntityService[T any] interface {
	Create(ctx context.Context, v T) (T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	Update(ctx context.Context, id uuid.UUID, v T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List parentID 为 uuid.Nil 时返回全部；顶层实体忽略 parentID
	List(ctx context.Context, parentID uuid.UUID) ([]T, error)
}

type entityService[T any] struct {
	store  storage.Provider
	name   string
	crud   func(*repository.Repository) repository.CRUD[T]
	list   func(ctx context.Context, repo *repository.Repository, parentID uuid.UUID) ([]T, error)
	logger *zap.Logger
}

func (s *entityService[T]) Create(ctx context.Context, v T) (T, error) {
	var out T
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		var err error
		out, err = s.crud(repo).Create(ctx, v)
		return err
	})
	return out, s.check("创建", err)
}

func (s *entityService[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var out T
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		var err error
		out, err = s.crud(repo).GetByID(ctx, id)
		return err
	})
	return out, s.check("查询", err)
}

func (s *entityService[T]) Update(ctx context.Context, id uuid.UUID, v T) (T, error) {
	var out T
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		var err error
		out, err = s.crud(repo).Update(ctx, id, v)
		return err
	})
	return out, s.check("更新", err)
}

func (s *entityService[T]) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		return s.crud(repo).Delete(ctx, id)
	})
	return s.check("删除", err)
}

func (s *entityService[T]) List(ctx context.Context, parentID uuid.UUID) ([]T, error) {
	var out []T
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		var err error
		out, err = s.list(ctx, repo, parentID)
		return err
	})
	return out, s.check("列表查询", err)
}

// check 分类错误直接返回，其余错误记录日志
func (s *entityService[T]) check(op string, err error) error {
	if err == nil || isClassified(err) {
		return err
	}
	s.logger.Error(op+"失败", zap.String("entity", s.name), zap.Error(err))
	return err
}

// isClassified 是否为仓储层约定的分类错误
func isClassified(err error) bool {
	for _, target := range []error{
		pkgerrors.ErrNotFound,
		pkgerrors.ErrPermissionDenied,
		pkgerrors.ErrValidation,
		pkgerrors.ErrConflict,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ── 各实体的 EntityService 构造 ──

func newEntityService[T any](
	store storage.Provider,
	name string,
	crud func(*repository.Repository) repository.CRUD[T],
	list func(context.Context, *repository.Repository, uuid.UUID) ([]T, error),
	logger *zap.Logger,
) EntityService[T] {
	return &entityService[T]{store: store, name: name, crud: crud, list: list, logger: logger}
}

// NewUserService 用户
func NewUserService(store storage.Provider, logger *zap.Logger) EntityService[model.User] {
	return newEntityService(store, repository.UserEntity.Name,
		func(r *repository.Repository) repository.CRUD[model.User] { return r.User },
		func(ctx context.Context, r *repository.Repository, _ uuid.UUID) ([]model.User, error) {
			return r.User.List(ctx)
		}, logger)
}

// NewProjectService 项目
func NewProjectService(store storage.Provider, logger *zap.Logger) EntityService[model.Project] {
	return newEntityService(store, repository.ProjectEntity.Name,
		func(r *repository.Repository) repository.CRUD[model.Project] { return r.Project },
		func(ctx context.Context, r *repository.Repository, _ uuid.UUID) ([]model.Project, error) {
			return r.Project.List(ctx)
		}, logger)
}

// NewCrewService 班组，按项目过滤
func NewCrewService(store storage.Provider, logger *zap.Logger) EntityService[model.Crew] {
	return newEntityService(store, repository.CrewEntity.Name,
		func(r *repository.Repository) repository.CRUD[model.Crew] { return r.Crew },
		func(ctx context.Context, r *repository.Repository, projectID uuid.UUID) ([]model.Crew, error) {
			return r.Crew.List(ctx, projectID)
		}, logger)
}

// NewPerformanceMetricService 班组绩效，按班组过滤
func NewPerformanceMetricService(store storage.Provider, logger *zap.Logger) EntityService[model.PerformanceMetric] {
	return newEntityService(store, repository.PerformanceMetricEntity.Name,
		func(r *repository.Repository) repository.CRUD[model.PerformanceMetric] { return r.PerformanceMetric },
		func(ctx context.Context, r *repository.Repository, crewID uuid.UUID) ([]model.PerformanceMetric, error) {
			return r.PerformanceMetric.List(ctx, crewID)
		}, logger)
}

// NewActivityService 施工活动，按项目过滤
func NewActivityService(store storage.Provider, logger *zap.Logger) EntityService[model.Activity] {
	return newEntityService(store, repository.ActivityEntity.Name,
		func(r *repository.Repository) repository.CRUD[model.Activity] { return r.Activity },
		func(ctx context.Context, r *repository.Repository, projectID uuid.UUID) ([]model.Activity, error) {
			return r.Activity.List(ctx, projectID)
		}, logger)
}

// NewShipmentService 物资运输，按项目过滤
func NewShipmentService(store storage.Provider, logger *zap.Logger) EntityService[model.Shipment] {
	return newEntityService(store, repository.ShipmentEntity.Name,
		func(r *repository.Repository) repository.CRUD[model.Shipment] { return r.Shipment },
		func(ctx context.Context, r *repository.Repository, projectID uuid.UUID) ([]model.Shipment, error) {
			return r.Shipment.List(ctx, projectID)
		}, logger)
}

// NewScheduleStatusService 阶段进度，按项目过滤
func NewScheduleStatusService(store storage.Provider, logger *zap.Logger) EntityService[model.ScheduleStatus] {
	return newEntityService(store, repository.ScheduleStatusEntity.Name,
		func(r *repository.Repository) repository.CRUD[model.ScheduleStatus] { return r.ScheduleStatus },
		func(ctx context.Context, r *repository.Repository, projectID uuid.UUID) ([]model.ScheduleStatus, error) {
			return r.ScheduleStatus.List(ctx, projectID)
		}, logger)
}

// NewTimeReportService 工时报告，按班组过滤；写入时由仓储校验提交人角色
func NewTimeReportService(store storage.Provider, logger *zap.Logger) EntityService[model.TimeReport] {
	return newEntityService(store, repository.TimeReportEntity.Name,
		func(r *repository.Repository) repository.CRUD[model.TimeReport] { return r.TimeReport },
		func(ctx context.Context, r *repository.Repository, crewID uuid.UUID) ([]model.TimeReport, error) {
			return r.TimeReport.List(ctx, crewID)
		}, logger)
}
