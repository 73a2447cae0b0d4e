package database

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sitecms/config"
	pkgerrors "sitecms/pkg/errors"
)

func TestNewDB_UnknownDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	if !errors.Is(err, pkgerrors.ErrConfiguration) {
		t.Fatalf("期望 ErrConfiguration，得到: %v", err)
	}
}

func TestRunMigrations_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "cms.db"),
	}
	db, err := NewDB(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDB 应成功: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	defer sqlDB.Close()

	// 重复执行应无变化
	for i := 0; i < 2; i++ {
		if err := RunMigrations(sqlDB, config.DriverSQLite, zap.NewNop()); err != nil {
			t.Fatalf("第 %d 次迁移失败: %v", i+1, err)
		}
	}

	for _, table := range []string{
		"users", "projects", "crews", "performance_metrics",
		"activities", "shipments", "schedule_statuses", "time_reports",
	} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("迁移后缺少表 %s", table)
		}
	}
}

func TestRunMigrations_UnknownDriver(t *testing.T) {
	err := RunMigrations(nil, "mysql", zap.NewNop())
	if !errors.Is(err, pkgerrors.ErrConfiguration) {
		t.Fatalf("期望 ErrConfiguration，得到: %v", err)
	}
}

func TestNewDB_SQLLoggedThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "cms.db"),
		LogSQL: true,
	}
	db, err := NewDB(cfg, zap.New(core))
	if err != nil {
		t.Fatalf("NewDB 应成功: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("执行 SQL 失败: %v", err)
	}

	found := false
	for _, e := range logs.All() {
		if e.LoggerName == "gorm" && strings.Contains(e.Message, "SELECT 1") {
			found = true
		}
	}
	if !found {
		t.Errorf("开启 log_sql 时 SQL 应经 zap 输出，实际日志: %d 条", logs.Len())
	}
}
