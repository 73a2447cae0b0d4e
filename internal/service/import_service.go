package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"sitecms/internal/dto"
	"sitecms/internal/model"
	"sitecms/internal/repository"
	"sitecms/internal/repository/flatfile"
	"sitecms/internal/storage"
	pkgerrors "sitecms/pkg/errors"
)

// ImportService CSV 批量导入业务接口
//
// 设计说明：
//   - 源目录与平面文件后端格式一致（users.csv、projects.csv ...），经 flatfile 仓储读取
//   - 按依赖顺序导入：用户、项目、班组、绩效、活动、运输、阶段进度、工时报告
//   - 文件不存在时跳过；标识已存在的记录跳过（get-or-create）
//   - 单条记录写入失败记录日志并计数，不中断导入；整个文件解析失败时记为一次失败（行号 0）
type ImportService interface {
	Import(ctx context.Context, dir string) (*dto.ImportResponse, error)
}

type importService struct {
	store  storage.Provider
	fs     afero.Fs
	logger *zap.Logger
}

// NewImportService 创建 ImportService 实例，fs 为源目录所在文件系统
func NewImportService(store storage.Provider, fs afero.Fs, logger *zap.Logger) ImportService {
	return &importService{store: store, fs: fs, logger: logger}
}

func (s *importService) Import(ctx context.Context, dir string) (*dto.ImportResponse, error) {
	ok, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("读取导入目录 %s 失败: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: 导入目录 %s 不存在", pkgerrors.ErrValidation, dir)
	}

	src := flatfile.New(s.fs, dir)
	resp := &dto.ImportResponse{Entities: make([]dto.ImportEntityResult, 0, 8)}

	err = s.store.WithRepositories(ctx, func(dst *repository.Repository) error {
		steps := []func() dto.ImportEntityResult{
			func() dto.ImportEntityResult {
				return importEntity[model.User](ctx, s, dir, repository.UserEntity,
					func() ([]model.User, error) { return src.User.List(ctx) }, dst.User)
			},
			func() dto.ImportEntityResult {
				return importEntity[model.Project](ctx, s, dir, repository.ProjectEntity,
					func() ([]model.Project, error) { return src.Project.List(ctx) }, dst.Project)
			},
			func() dto.ImportEntityResult {
				return importEntity[model.Crew](ctx, s, dir, repository.CrewEntity,
					func() ([]model.Crew, error) { return src.Crew.List(ctx, uuid.Nil) }, dst.Crew)
			},
			func() dto.ImportEntityResult {
				return importEntity[model.PerformanceMetric](ctx, s, dir, repository.PerformanceMetricEntity,
					func() ([]model.PerformanceMetric, error) { return src.PerformanceMetric.List(ctx, uuid.Nil) }, dst.PerformanceMetric)
			},
			func() dto.ImportEntityResult {
				return importEntity[model.Activity](ctx, s, dir, repository.ActivityEntity,
					func() ([]model.Activity, error) { return src.Activity.List(ctx, uuid.Nil) }, dst.Activity)
			},
			func() dto.ImportEntityResult {
				return importEntity[model.Shipment](ctx, s, dir, repository.ShipmentEntity,
					func() ([]model.Shipment, error) { return src.Shipment.List(ctx, uuid.Nil) }, dst.Shipment)
			},
			func() dto.ImportEntityResult {
				return importEntity[model.ScheduleStatus](ctx, s, dir, repository.ScheduleStatusEntity,
					func() ([]model.ScheduleStatus, error) { return src.ScheduleStatus.List(ctx, uuid.Nil) }, dst.ScheduleStatus)
			},
			func() dto.ImportEntityResult {
				return importEntity[model.TimeReport](ctx, s, dir, repository.TimeReportEntity,
					func() ([]model.TimeReport, error) { return src.TimeReport.List(ctx, uuid.Nil) }, dst.TimeReport)
			},
		}
		for _, step := range steps {
			if err := ctx.Err(); err != nil {
				return err
			}
			resp.Entities = append(resp.Entities, step())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created, skipped, failed := resp.Totals()
	s.logger.Info("CSV 导入完成",
		zap.String("dir", dir),
		zap.Int("created", created),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	return resp, nil
}

// importEntity 导入单个实体文件，源文件按行序读取，行号从 2 开始（第 1 行为表头）
func importEntity[T any](
	ctx context.Context,
	s *importService,
	dir string,
	entity repository.Entity[T],
	load func() ([]T, error),
	dst repository.CRUD[T],
) dto.ImportEntityResult {
	res := dto.ImportEntityResult{Entity: entity.Name, File: entity.File}
	log := s.logger.With(zap.String("entity", entity.Name), zap.String("file", entity.File))

	exists, err := afero.Exists(s.fs, filepath.Join(dir, entity.File))
	if err != nil || !exists {
		res.Missing = true
		log.Warn("导入文件不存在，跳过")
		return res
	}

	rows, err := load()
	if err != nil {
		res.Failed++
		res.Errors = append(res.Errors, dto.ImportError{Row: 0, Reason: err.Error()})
		log.Error("解析导入文件失败", zap.Error(err))
		return res
	}
	res.Total = len(rows)

	for i, row := range rows {
		line := i + 2
		id := entity.ID(row)

		_, err := dst.GetByID(ctx, id)
		switch {
		case err == nil:
			res.Skipped++
			continue
		case !errors.Is(err, pkgerrors.ErrNotFound):
			res.Failed++
			res.Errors = append(res.Errors, dto.ImportError{Row: line, Reason: err.Error()})
			log.Error("查询已有记录失败", zap.Int("row", line), zap.Error(err))
			continue
		}

		if _, err := dst.Create(ctx, row); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, dto.ImportError{Row: line, Reason: err.Error()})
			log.Warn("导入记录失败", zap.Int("row", line), zap.String("id", id.String()), zap.Error(err))
			continue
		}
		res.Created++
	}
	return res
}
