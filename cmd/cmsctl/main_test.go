package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgerrors "sitecms/pkg/errors"
)

const (
	cliProject = "33333333-3333-3333-3333-333333333333"
	cliCrew    = "44444444-4444-4444-4444-444444444444"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入 %s 失败: %v", path, err)
	}
}

// flatFileConfig 生成使用平面文件后端的配置文件
func flatFileConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "storage:\n  backend: flatfile\n  data_dir: "+filepath.Join(dir, "data")+"\nlog:\n  level: error\n")
	return path
}

func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "projects.csv"),
		"project_id,name,start_date,end_date\n"+cliProject+",Harbour Bridge,2025-01-06,2025-11-28\n")
	writeFile(t, filepath.Join(dir, "crews.csv"),
		"crew_id,name,project_id\n"+cliCrew+",Concrete,"+cliProject+"\n")
	writeFile(t, filepath.Join(dir, "statuses.csv"),
		"status_id,project_id,phase,status,last_updated\n"+
			"55555555-5555-5555-5555-555555555551,"+cliProject+",Foundation,OnSchedule,2025-06-02\n"+
			"55555555-5555-5555-5555-555555555552,"+cliProject+",Framing,Behind,2025-06-02\n")
	writeFile(t, filepath.Join(dir, "metrics.csv"),
		"metric_id,crew_id,date,productivity,tasks_completed,tasks_total,hours_worked\n"+
			"66666666-6666-6666-6666-666666666661,"+cliCrew+",2025-06-02,0.9,5,6,8\n"+
			"66666666-6666-6666-6666-666666666662,"+cliCrew+",2025-06-03,0.7,3,4,8\n")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_ImportThenReport(t *testing.T) {
	cfg := flatFileConfig(t)
	src := seedDir(t)

	out, err := run(t, "--config", cfg, "import", "--from", src)
	if err != nil {
		t.Fatalf("import 应成功: %v", err)
	}
	for _, want := range []string{"projects.csv", "statuses.csv", "users.csv"} {
		if !strings.Contains(out, want) {
			t.Errorf("导入结果缺少 %s:\n%s", want, out)
		}
	}

	out, err = run(t, "--config", cfg, "progress", cliProject)
	if err != nil {
		t.Fatalf("progress 应成功: %v", err)
	}
	if !strings.Contains(out, "Harbour Bridge") || !strings.Contains(out, "50.0%") {
		t.Errorf("进度输出不符合预期:\n%s", out)
	}

	out, err = run(t, "--config", cfg, "--json", "performance",
		"--crew", cliCrew, "--start", "2025-06-01", "--end", "2025-06-30")
	if err != nil {
		t.Fatalf("performance 应成功: %v", err)
	}
	var report struct {
		MetricCount         int     `json:"metric_count"`
		TotalTasksCompleted int     `json:"total_tasks_completed"`
		TotalHoursWorked    float64 `json:"total_hours_worked"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("解析 JSON 输出失败: %v\n%s", err, out)
	}
	if report.MetricCount != 2 || report.TotalTasksCompleted != 8 || report.TotalHoursWorked != 16 {
		t.Errorf("绩效汇总不符合预期: %+v", report)
	}
}

func TestCLI_ImportTwiceSkips(t *testing.T) {
	cfg := flatFileConfig(t)
	src := seedDir(t)

	if _, err := run(t, "--config", cfg, "import", "--from", src); err != nil {
		t.Fatalf("首次导入应成功: %v", err)
	}
	out, err := run(t, "--config", cfg, "--json", "import", "--from", src)
	if err != nil {
		t.Fatalf("重复导入应成功: %v", err)
	}
	var resp struct {
		Entities []struct {
			Created int `json:"created"`
			Skipped int `json:"skipped"`
		} `json:"entities"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("解析 JSON 输出失败: %v", err)
	}
	skipped := 0
	for _, e := range resp.Entities {
		if e.Created != 0 {
			t.Errorf("重复导入不应创建记录: %+v", e)
		}
		skipped += e.Skipped
	}
	if skipped != 6 {
		t.Errorf("期望跳过 6 条，实际: %d", skipped)
	}
}

func TestCLI_ProgressUnknownProject(t *testing.T) {
	cfg := flatFileConfig(t)
	_, err := run(t, "--config", cfg, "progress", cliProject)
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound，实际: %v", err)
	}
}

func TestCLI_ProgressInvalidID(t *testing.T) {
	cfg := flatFileConfig(t)
	_, err := run(t, "--config", cfg, "progress", "not-a-uuid")
	if !errors.Is(err, pkgerrors.ErrValidation) {
		t.Errorf("期望 ErrValidation，实际: %v", err)
	}
}

func TestCLI_PerformanceInvertedRange(t *testing.T) {
	cfg := flatFileConfig(t)
	_, err := run(t, "--config", cfg, "performance",
		"--crew", cliCrew, "--start", "2025-06-30", "--end", "2025-06-01")
	if !errors.Is(err, pkgerrors.ErrValidation) {
		t.Errorf("期望 ErrValidation，实际: %v", err)
	}
}

func TestCLI_MigrateNonRelational(t *testing.T) {
	cfg := flatFileConfig(t)
	out, err := run(t, "--config", cfg, "migrate")
	if err != nil {
		t.Fatalf("migrate 应成功: %v", err)
	}
	if !strings.Contains(out, "无需迁移") {
		t.Errorf("平面文件后端应提示无需迁移，实际: %q", out)
	}
}

func TestCLI_MigrateSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	writeFile(t, cfg, "storage:\n  backend: relational\ndb:\n  driver: sqlite\n  path: "+
		filepath.Join(dir, "cms.db")+"\nlog:\n  level: error\n")

	out, err := run(t, "--config", cfg, "migrate")
	if err != nil {
		t.Fatalf("migrate 应成功: %v", err)
	}
	if !strings.Contains(out, "迁移完成") {
		t.Errorf("期望输出迁移完成，实际: %q", out)
	}
}
