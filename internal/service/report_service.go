package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitecms/internal/dto"
	"sitecms/internal/model"
	"sitecms/internal/repository"
	"sitecms/internal/storage"
	pkgerrors "sitecms/pkg/errors"
)

// ReportService 报表业务接口
//
// 设计说明：
//   - 报表只读，同一次调用内的查询共用一组仓储
//   - 绩效报表同步计算，日期区间两端均包含
type ReportService interface {
	// ProjectProgress 按阶段进度统计项目完成度，项目不存在返回 ErrNotFound
	ProjectProgress(ctx context.Context, projectID uuid.UUID) (*dto.ProjectProgressResponse, error)
	// PerformanceReport 汇总班组在 [start, end] 内的绩效，start 晚于 end 返回 ErrValidation
	PerformanceReport(ctx context.Context, crewID uuid.UUID, start, end model.Date) (*dto.PerformanceReportResponse, error)
}

type reportService struct {
	store  storage.Provider
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(store storage.Provider, logger *zap.Logger) ReportService {
	return &reportService{store: store, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ProjectProgress 项目进度
// ═══════════════════════════════════════════════════════════
//
// 完成阶段 = OnSchedule + Ahead；百分比 = 完成阶段 / 阶段总数 × 100，无阶段时为 0

func (s *reportService) ProjectProgress(ctx context.Context, projectID uuid.UUID) (*dto.ProjectProgressResponse, error) {
	var resp *dto.ProjectProgressResponse
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		project, err := repo.Project.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		statuses, err := repo.ScheduleStatus.List(ctx, projectID)
		if err != nil {
			return err
		}
		activities, err := repo.Activity.List(ctx, projectID)
		if err != nil {
			return err
		}

		completed := 0
		for _, st := range statuses {
			if st.Status == model.ScheduleOnSchedule || st.Status == model.ScheduleAhead {
				completed++
			}
		}
		pct := 0.0
		if len(statuses) > 0 {
			pct = float64(completed) / float64(len(statuses)) * 100
		}

		resp = &dto.ProjectProgressResponse{
			ProjectID:          project.ProjectID,
			ProjectName:        project.Name,
			ProgressPercentage: pct,
			TotalPhases:        len(statuses),
			CompletedPhases:    completed,
			ActivityCount:      len(activities),
		}
		return nil
	})
	if err != nil {
		if !isClassified(err) {
			s.logger.Error("统计项目进度失败", zap.String("project_id", projectID.String()), zap.Error(err))
		}
		return nil, err
	}
	return resp, nil
}

// ═══════════════════════════════════════════════════════════
// PerformanceReport 班组绩效报表
// ═══════════════════════════════════════════════════════════
//
// 不校验班组是否存在：无匹配记录时各项汇总为 0；uuid.Nil 在仓储中表示不过滤，此处拒绝

func (s *reportService) PerformanceReport(ctx context.Context, crewID uuid.UUID, start, end model.Date) (*dto.PerformanceReportResponse, error) {
	if crewID == uuid.Nil {
		return nil, fmt.Errorf("%w: crew_id 不能为空", pkgerrors.ErrValidation)
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: 起止日期不能为空", pkgerrors.ErrValidation)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: 开始日期 %s 晚于结束日期 %s", pkgerrors.ErrValidation, start, end)
	}

	var metrics []model.PerformanceMetric
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		var err error
		metrics, err = repo.PerformanceMetric.List(ctx, crewID)
		return err
	})
	if err != nil {
		if !isClassified(err) {
			s.logger.Error("查询班组绩效失败", zap.String("crew_id", crewID.String()), zap.Error(err))
		}
		return nil, err
	}

	resp := &dto.PerformanceReportResponse{CrewID: crewID, StartDate: start, EndDate: end}
	productivity := 0.0
	for _, m := range metrics {
		if m.Date.Before(start) || m.Date.After(end) {
			continue
		}
		resp.MetricCount++
		productivity += m.Productivity
		resp.TotalTasksCompleted += m.TasksCompleted
		resp.TotalHoursWorked += m.HoursWorked
	}
	if resp.MetricCount > 0 {
		resp.AvgProductivity = productivity / float64(resp.MetricCount)
	}
	return resp, nil
}
