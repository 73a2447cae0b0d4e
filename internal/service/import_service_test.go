package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"sitecms/internal/dto"
	"sitecms/internal/repository"
	"sitecms/internal/storage"
	pkgerrors "sitecms/pkg/errors"
)

const (
	importForeman = "11111111-1111-1111-1111-111111111111"
	importSuper   = "22222222-2222-2222-2222-222222222222"
	importProject = "33333333-3333-3333-3333-333333333333"
	importCrew    = "44444444-4444-4444-4444-444444444444"
)

// ── 测试辅助 ──

func writeImportFiles(t *testing.T, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := afero.WriteFile(fs, filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("写入 %s 失败: %v", name, err)
		}
	}
}

func sampleImportFiles() map[string]string {
	return map[string]string{
		"users.csv": "user_id,username,role\n" +
			importForeman + ",alice,Foreman\n" +
			importSuper + ",bob,Superintendent\n",
		"projects.csv": "project_id,name,start_date,end_date\n" +
			importProject + ",Harbour Bridge,2025-01-06,2025-11-28\n",
		"crews.csv": "crew_id,name,project_id\n" +
			importCrew + ",Concrete," + importProject + "\n",
		"shipments.csv": "shipment_id,project_id,location,contents,status,arrival_date,customs_date,laydown_date,available_date\n" +
			uuid.NewString() + "," + importProject + ",Port,Rebar,InTransit,2025-03-01,,,\n",
		"statuses.csv": "status_id,project_id,phase,status,last_updated\n" +
			uuid.NewString() + "," + importProject + ",Framing,Sideways,2025-06-02\n",
		"reports.csv": "report_id,crew_id,user_id,date,member_name,task,hours,effort_percentage\n" +
			uuid.NewString() + "," + importCrew + "," + importForeman + ",2025-06-03,J. Smith,Formwork,8,100\n" +
			uuid.NewString() + "," + importCrew + "," + importSuper + ",2025-06-03,K. Lee,Formwork,4,50\n",
	}
}

func resultFor(t *testing.T, resp *dto.ImportResponse, entity string) dto.ImportEntityResult {
	t.Helper()
	for _, e := range resp.Entities {
		if e.Entity == entity {
			return e
		}
	}
	t.Fatalf("结果中缺少实体 %s", entity)
	return dto.ImportEntityResult{}
}

// ── Import 测试 ──

func TestImportService_Import(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeImportFiles(t, fs, "/seed", sampleImportFiles())
	store := storage.NewMemory()
	svc := NewImportService(store, fs, zap.NewNop())

	resp, err := svc.Import(context.Background(), "/seed")
	if err != nil {
		t.Fatalf("Import 应成功: %v", err)
	}
	if len(resp.Entities) != 8 {
		t.Fatalf("期望 8 个实体结果，实际: %d", len(resp.Entities))
	}
	if resp.Entities[0].Entity != repository.UserEntity.Name || resp.Entities[7].Entity != repository.TimeReportEntity.Name {
		t.Errorf("导入顺序应从用户开始、以工时报告结束: %+v", resp.Entities)
	}

	if r := resultFor(t, resp, repository.UserEntity.Name); r.Created != 2 {
		t.Errorf("期望导入 2 个用户，实际: %+v", r)
	}
	if r := resultFor(t, resp, repository.PerformanceMetricEntity.Name); !r.Missing {
		t.Errorf("metrics.csv 不存在时应标记为跳过: %+v", r)
	}
	if r := resultFor(t, resp, repository.ShipmentEntity.Name); r.Created != 1 {
		t.Errorf("空日期应按零值导入，实际: %+v", r)
	}
	if r := resultFor(t, resp, repository.ScheduleStatusEntity.Name); len(r.Errors) != 1 || r.Errors[0].Row != 0 || r.Failed != 1 || r.Created != 0 {
		t.Errorf("非法状态应导致整个文件解析失败并计入失败数: %+v", r)
	}

	reports := resultFor(t, resp, repository.TimeReportEntity.Name)
	if reports.Created != 1 || reports.Failed != 1 {
		t.Errorf("期望工长报告成功、主管报告失败，实际: %+v", reports)
	}
	if len(reports.Errors) != 1 || reports.Errors[0].Row != 3 {
		t.Errorf("失败记录应指向第 3 行: %+v", reports.Errors)
	}

	created, _, failed := resp.Totals()
	if created != 6 || failed != 2 {
		t.Errorf("期望共创建 6 条、失败 2 条（含 1 个解析失败的文件），实际: %d / %d", created, failed)
	}
}

func TestImportService_Import_SkipsExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeImportFiles(t, fs, "/seed", sampleImportFiles())
	store := storage.NewMemory()
	svc := NewImportService(store, fs, zap.NewNop())

	if _, err := svc.Import(context.Background(), "/seed"); err != nil {
		t.Fatalf("首次导入应成功: %v", err)
	}
	resp, err := svc.Import(context.Background(), "/seed")
	if err != nil {
		t.Fatalf("重复导入应成功: %v", err)
	}

	created, skipped, _ := resp.Totals()
	if created != 0 {
		t.Errorf("重复导入不应创建记录，实际: %d", created)
	}
	// 2 用户 + 1 项目 + 1 班组 + 1 运输 + 1 工时报告
	if skipped != 6 {
		t.Errorf("期望跳过 6 条已存在记录，实际: %d", skipped)
	}
}

func TestImportService_Import_MissingDir(t *testing.T) {
	svc := NewImportService(storage.NewMemory(), afero.NewMemMapFs(), zap.NewNop())

	if _, err := svc.Import(context.Background(), "/nowhere"); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Errorf("期望 ErrValidation，实际: %v", err)
	}
}

func TestImportService_Import_DoesNotTouchMissingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeImportFiles(t, fs, "/seed", map[string]string{"users.csv": "user_id,username,role\n"})
	svc := NewImportService(storage.NewMemory(), fs, zap.NewNop())

	if _, err := svc.Import(context.Background(), "/seed"); err != nil {
		t.Fatalf("Import 应成功: %v", err)
	}
	if ok, _ := afero.Exists(fs, "/seed/projects.csv"); ok {
		t.Error("导入不应在源目录中创建缺失的文件")
	}
}
