package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sitecms/internal/model"
	"sitecms/internal/repository"
	"sitecms/internal/storage"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 工时报告按班组导出为 Excel (.xlsx)，按日期、成员排序
//   - 施工活动按项目导出为 iCalendar，每个活动一个全天事件
//   - 导出以字节缓冲返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportTimeReports 导出班组工时报告，班组不存在返回 ErrNotFound
	ExportTimeReports(ctx context.Context, crewID uuid.UUID) (*bytes.Buffer, string, error)
	// ExportActivities 导出项目施工活动日历，项目不存在返回 ErrNotFound
	ExportActivities(ctx context.Context, projectID uuid.UUID) (*bytes.Buffer, string, error)
}

type exportService struct {
	store  storage.Provider
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(store storage.Provider, logger *zap.Logger) ExportService {
	return &exportService{store: store, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportTimeReports 导出工时报告为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "工时报告"
//   - 第 1 行标题为班组名称加"工时报告"
//   - 第 2 行表头：日期 | 成员 | 任务 | 工时 | 工作量占比(%) | 提交人
//   - 末行合计工时

func (s *exportService) ExportTimeReports(ctx context.Context, crewID uuid.UUID) (*bytes.Buffer, string, error) {
	var (
		crew      model.Crew
		reports   []model.TimeReport
		usernames = make(map[uuid.UUID]string)
	)
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		var err error
		if crew, err = repo.Crew.GetByID(ctx, crewID); err != nil {
			return err
		}
		if reports, err = repo.TimeReport.List(ctx, crewID); err != nil {
			return err
		}
		users, err := repo.User.List(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			usernames[u.UserID] = u.Username
		}
		return nil
	})
	if err != nil {
		if !isClassified(err) {
			s.logger.Error("查询工时报告失败", zap.String("crew_id", crewID.String()), zap.Error(err))
		}
		return nil, "", err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Date != reports[j].Date {
			return reports[i].Date.Before(reports[j].Date)
		}
		return reports[i].MemberName < reports[j].MemberName
	})

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "工时报告"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 36)
	f.SetColWidth(sheetName, "D", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s 工时报告", crew.Name))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"日期", "成员", "任务", "工时", "工作量占比(%)", "提交人"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "F2", headerStyle)

	// 数据行
	row := 3
	total := 0.0
	for _, r := range reports {
		f.SetCellValue(sheetName, cell("A", row), r.Date.String())
		f.SetCellValue(sheetName, cell("B", row), r.MemberName)
		f.SetCellValue(sheetName, cell("C", row), r.Task)
		f.SetCellValue(sheetName, cell("D", row), r.Hours)
		f.SetCellValue(sheetName, cell("E", row), r.EffortPercentage)
		submitter, ok := usernames[r.UserID]
		if !ok {
			submitter = r.UserID.String()
		}
		f.SetCellValue(sheetName, cell("F", row), submitter)
		total += r.Hours
		row++
	}
	f.SetCellValue(sheetName, cell("C", row), "合计")
	f.SetCellValue(sheetName, cell("D", row), total)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("工时报告_%s.xlsx", crew.Name)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportActivities 导出施工活动为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个活动对应一个 VEVENT：
//   - UID = activity_id@sitecms
//   - SUMMARY = 活动描述，DESCRIPTION = 制约条件
//   - DTSTART/DTEND 为全天日期，DTEND 取结束日期次日（不含）
//   - 未填开始日期的活动跳过；未填结束日期按单日处理

func (s *exportService) ExportActivities(ctx context.Context, projectID uuid.UUID) (*bytes.Buffer, string, error) {
	var (
		project    model.Project
		activities []model.Activity
	)
	err := s.store.WithRepositories(ctx, func(repo *repository.Repository) error {
		var err error
		if project, err = repo.Project.GetByID(ctx, projectID); err != nil {
			return err
		}
		activities, err = repo.Activity.List(ctx, projectID)
		return err
	})
	if err != nil {
		if !isClassified(err) {
			s.logger.Error("查询施工活动失败", zap.String("project_id", projectID.String()), zap.Error(err))
		}
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//sitecms//activities//ZH")
	cal.SetXWRCalName(project.Name)

	stamp := s.now().UTC()
	for _, a := range activities {
		if a.StartDate.IsZero() {
			s.logger.Warn("活动缺少开始日期，跳过", zap.String("activity_id", a.ActivityID.String()))
			continue
		}
		end := a.EndDate
		if end.IsZero() || end.Before(a.StartDate) {
			end = a.StartDate
		}

		event := cal.AddEvent(a.ActivityID.String() + "@sitecms")
		event.SetDtStampTime(stamp)
		event.SetSummary(a.Description)
		if a.Constraint != "" {
			event.SetDescription(a.Constraint)
		}
		event.SetAllDayStartAt(a.StartDate.Time())
		event.SetAllDayEndAt(end.Time().AddDate(0, 0, 1))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("施工活动_%s.ics", project.Name)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
