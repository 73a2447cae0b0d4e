package relational

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sitecms/config"
	"sitecms/internal/model"
	"sitecms/internal/repository"
	"sitecms/internal/repository/repotest"
	"sitecms/pkg/database"
	pkgerrors "sitecms/pkg/errors"
)

// newTestDB 每个测试独立的 SQLite 文件，已执行迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "cms.db"),
	}
	db, err := database.NewDB(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.RunMigrations(sqlDB, config.DriverSQLite, zap.NewNop()); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	return db
}

func TestContract(t *testing.T) {
	repotest.RunContract(t, func(t *testing.T) *repository.Repository {
		return New(newTestDB(t))
	})
}

func TestCreate_DuplicateConflict(t *testing.T) {
	repo := New(newTestDB(t))
	p := repotest.MustCreate(t, repo.Project.Create, repotest.NewProject("P"))

	_, err := repo.Project.Create(context.Background(), p)
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("重复标识期望 ErrConflict，得到: %v", err)
	}
}

func TestCreate_OrphanRejected(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	crew := model.Crew{CrewID: uuid.New(), Name: "orphan", ProjectID: uuid.New()}
	if _, err := repo.Crew.Create(ctx, crew); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Fatalf("上级不存在期望 ErrValidation，得到: %v", err)
	}
	if _, err := repo.Crew.GetByID(ctx, crew.CrewID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("失败的创建不应留下记录: %v", err)
	}
}

func TestCreate_InvalidEnumRejected(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()
	fx := repotest.Seed(t, repo)

	s := repotest.NewShipment(fx.Project.ProjectID, "Lost")
	if _, err := repo.Shipment.Create(ctx, s); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Fatalf("非法状态期望 ErrValidation，得到: %v", err)
	}
	if _, err := repo.User.Create(ctx, model.User{UserID: uuid.New(), Username: "x", Role: "Architect"}); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Fatalf("非法角色期望 ErrValidation，得到: %v", err)
	}
}

func TestDelete_CascadesToChildren(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()
	fx := repotest.Seed(t, repo)

	metric := repotest.MustCreate(t, repo.PerformanceMetric.Create, repotest.NewMetric(fx.Crew.CrewID, model.NewDate(2025, 1, 2), 1, 1, 1, 8))
	report := repotest.MustCreate(t, repo.TimeReport.Create, repotest.NewTimeReport(fx.Crew.CrewID, fx.Foreman.UserID, 8))
	activity := repotest.MustCreate(t, repo.Activity.Create, repotest.NewActivity(fx.Project.ProjectID, "Excavation"))

	if err := repo.Project.Delete(ctx, fx.Project.ProjectID); err != nil {
		t.Fatalf("删除项目失败: %v", err)
	}

	if _, err := repo.Crew.GetByID(ctx, fx.Crew.CrewID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("班组应随项目级联删除: %v", err)
	}
	if _, err := repo.PerformanceMetric.GetByID(ctx, metric.MetricID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("绩效应随班组级联删除: %v", err)
	}
	if _, err := repo.TimeReport.GetByID(ctx, report.ReportID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("工时报告应随班组级联删除: %v", err)
	}
	if _, err := repo.Activity.GetByID(ctx, activity.ActivityID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("施工活动应随项目级联删除: %v", err)
	}
	if _, err := repo.User.GetByID(ctx, fx.Foreman.UserID); err != nil {
		t.Errorf("用户不应被级联删除: %v", err)
	}
}

func TestDelete_UserWithReportsConflict(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()
	fx := repotest.Seed(t, repo)
	repotest.MustCreate(t, repo.TimeReport.Create, repotest.NewTimeReport(fx.Crew.CrewID, fx.Foreman.UserID, 8))

	if err := repo.User.Delete(ctx, fx.Foreman.UserID); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("仍有工时报告的用户删除期望 ErrConflict，得到: %v", err)
	}
	if _, err := repo.User.GetByID(ctx, fx.Foreman.UserID); err != nil {
		t.Errorf("删除失败后用户应仍存在: %v", err)
	}
}

func TestUpdate_RewritesPrimaryKey(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()
	fx := repotest.Seed(t, repo)

	moved := fx.Project
	moved.ProjectID = uuid.New()
	got, err := repo.Project.Update(ctx, fx.Project.ProjectID, moved)
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if got != moved {
		t.Errorf("Update 应返回按新标识回读的记录: %+v", got)
	}
	if _, err := repo.Project.GetByID(ctx, fx.Project.ProjectID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("旧标识应不可读取: %v", err)
	}

	// 子记录随主键级联更新
	crew, err := repo.Crew.GetByID(ctx, fx.Crew.CrewID)
	if err != nil {
		t.Fatalf("读取班组失败: %v", err)
	}
	if crew.ProjectID != moved.ProjectID {
		t.Errorf("班组的项目标识应级联更新为 %s，得到 %s", moved.ProjectID, crew.ProjectID)
	}
}

func TestUpdate_DanglingParentRejected(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()
	fx := repotest.Seed(t, repo)

	moved := fx.Crew
	moved.ProjectID = uuid.New()
	if _, err := repo.Crew.Update(ctx, fx.Crew.CrewID, moved); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Fatalf("指向不存在的项目期望 ErrValidation，得到: %v", err)
	}
	if got, _ := repo.Crew.GetByID(ctx, fx.Crew.CrewID); got != fx.Crew {
		t.Errorf("失败的更新不应修改记录: %+v", got)
	}
}

func TestList_OrderedByID(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		repotest.MustCreate(t, repo.Project.Create, repotest.NewProject("P"))
	}
	projects, err := repo.Project.List(ctx)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	for i := 1; i < len(projects); i++ {
		if projects[i-1].ProjectID.String() > projects[i].ProjectID.String() {
			t.Fatalf("结果未按标识排序: %s > %s", projects[i-1].ProjectID, projects[i].ProjectID)
		}
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo := New(newTestDB(t))
	users, err := repo.User.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("空表应返回非 nil 空切片，得到: %#v", users)
	}
}

func TestEmptyDates(t *testing.T) {
	repo := New(newTestDB(t))
	fx := repotest.Seed(t, repo)

	a := repotest.NewActivity(fx.Project.ProjectID, "Unscheduled")
	a.StartDate, a.EndDate = model.Date{}, model.Date{}
	repotest.MustCreate(t, repo.Activity.Create, a)

	got, err := repo.Activity.GetByID(context.Background(), a.ActivityID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got != a {
		t.Errorf("空日期应读回零值: %+v", got)
	}
}
