package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sitecms/internal/model"
	"sitecms/internal/repository"
	"sitecms/internal/repository/repotest"
	pkgerrors "sitecms/pkg/errors"
)

// ── ExportTimeReports 测试 ──

func TestExportService_ExportTimeReports_NotFound(t *testing.T) {
	store, _ := setupTestStore(t)
	svc := NewExportService(store, zap.NewNop())

	_, _, err := svc.ExportTimeReports(context.Background(), uuid.New())
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

func TestExportService_ExportTimeReports_Success(t *testing.T) {
	store, fx := setupTestStore(t)
	_ = store.WithRepositories(context.Background(), func(repo *repository.Repository) error {
		late := repotest.NewTimeReport(fx.Crew.CrewID, fx.Foreman.UserID, 6)
		late.Date = model.NewDate(2025, time.June, 9)
		late.MemberName = "B. Jones"
		repotest.MustCreate(t, repo.TimeReport.Create, late)
		repotest.MustCreate(t, repo.TimeReport.Create, repotest.NewTimeReport(fx.Crew.CrewID, fx.Foreman.UserID, 8))
		return nil
	})

	svc := NewExportService(store, zap.NewNop())
	buf, filename, err := svc.ExportTimeReports(context.Background(), fx.Crew.CrewID)
	if err != nil {
		t.Fatalf("ExportTimeReports 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") || !strings.Contains(filename, fx.Crew.Name) {
		t.Errorf("文件名不符合预期: %s", filename)
	}
	// Excel .xlsx 文件以 PK (0x504B) 开头
	if buf.Len() < 2 || buf.Bytes()[0] != 0x50 || buf.Bytes()[1] != 0x4B {
		t.Fatal("输出内容不是有效的 xlsx 文件格式（应以 PK 开头）")
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("无法解析导出的 Excel: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("工时报告")
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	// 标题 + 表头 + 2 条数据 + 合计
	if len(rows) != 5 {
		t.Fatalf("期望 5 行，实际: %d", len(rows))
	}
	if rows[0][0] != fx.Crew.Name+" 工时报告" {
		t.Errorf("标题不符合预期: %q", rows[0][0])
	}
	if rows[2][0] != "2025-06-03" || rows[3][0] != "2025-06-09" {
		t.Errorf("数据行应按日期排序，实际: %v / %v", rows[2][0], rows[3][0])
	}
	if rows[2][5] != fx.Foreman.Username {
		t.Errorf("提交人应显示用户名，实际: %s", rows[2][5])
	}
	if rows[4][3] != "14" {
		t.Errorf("期望合计工时 14，实际: %s", rows[4][3])
	}
}

// ── ExportActivities 测试 ──

func TestExportService_ExportActivities_NotFound(t *testing.T) {
	store, _ := setupTestStore(t)
	svc := NewExportService(store, zap.NewNop())

	_, _, err := svc.ExportActivities(context.Background(), uuid.New())
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

func TestExportService_ExportActivities_Success(t *testing.T) {
	store, fx := setupTestStore(t)
	var pour model.Activity
	_ = store.WithRepositories(context.Background(), func(repo *repository.Repository) error {
		pour = repotest.NewActivity(fx.Project.ProjectID, "Pour slab")
		pour.Constraint = "Crane on site"
		repotest.MustCreate(t, repo.Activity.Create, pour)

		undated := repotest.NewActivity(fx.Project.ProjectID, "Undated")
		undated.StartDate = model.Date{}
		repotest.MustCreate(t, repo.Activity.Create, undated)
		return nil
	})

	svc := &exportService{
		store:  store,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC) },
	}
	buf, filename, err := svc.ExportActivities(context.Background(), fx.Project.ProjectID)
	if err != nil {
		t.Fatalf("ExportActivities 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".ics") {
		t.Errorf("文件名应以 .ics 结尾: %s", filename)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("无法解析导出的日历: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("缺少开始日期的活动应跳过，期望 1 个事件，实际: %d", len(events))
	}

	evt := events[0]
	if evt.Id() != pour.ActivityID.String()+"@sitecms" {
		t.Errorf("UID 不符合预期: %s", evt.Id())
	}
	if p := evt.GetProperty(ics.ComponentPropertySummary); p == nil || p.Value != "Pour slab" {
		t.Errorf("SUMMARY 不符合预期: %+v", p)
	}
	if p := evt.GetProperty(ics.ComponentPropertyDescription); p == nil || p.Value != "Crane on site" {
		t.Errorf("DESCRIPTION 不符合预期: %+v", p)
	}
	if p := evt.GetProperty(ics.ComponentPropertyDtStart); p == nil || p.Value != "20250505" {
		t.Errorf("DTSTART 应为全天日期 20250505: %+v", p)
	}
	// 结束日期 05-09 含当天，DTEND 取次日
	if p := evt.GetProperty(ics.ComponentPropertyDtEnd); p == nil || p.Value != "20250510" {
		t.Errorf("DTEND 应为 20250510: %+v", p)
	}
}
