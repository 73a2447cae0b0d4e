// Package repotest 三种仓储后端共用的契约测试。
// 各后端的测试以 RunContract 驱动同一组用例，保证行为一致。
package repotest

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"sitecms/internal/model"
	"sitecms/internal/repository"
	pkgerrors "sitecms/pkg/errors"
)

// Factory 为每个子测试创建一组全新的空仓储
type Factory func(t *testing.T) *repository.Repository

// RunContract 执行全部契约用例
func RunContract(t *testing.T, newRepo Factory) {
	t.Run("User", func(t *testing.T) {
		repo := newRepo(t)
		checkCRUD(t, crudCase[model.User]{
			repo:   repo.User,
			value:  model.User{UserID: uuid.New(), Username: "alice", Role: model.RoleWorkplacePlanner},
			edited: func(v model.User) model.User { v.Username = "alice.w"; v.Role = model.RoleMaterialPlanner; return v },
			id:     repository.UserEntity.ID,
			list:   repo.User.List,
		})
	})

	t.Run("Project", func(t *testing.T) {
		repo := newRepo(t)
		checkCRUD(t, crudCase[model.Project]{
			repo:   repo.Project,
			value:  NewProject("Harbour Tower"),
			edited: func(v model.Project) model.Project { v.EndDate = model.NewDate(2026, time.June, 30); return v },
			id:     repository.ProjectEntity.ID,
			list:   repo.Project.List,
		})
	})

	t.Run("Crew", func(t *testing.T) {
		repo := newRepo(t)
		fx := Seed(t, repo)
		checkCRUD(t, crudCase[model.Crew]{
			repo:   repo.Crew,
			value:  model.Crew{CrewID: uuid.New(), Name: "Concrete B", ProjectID: fx.Project.ProjectID},
			edited: func(v model.Crew) model.Crew { v.Name = "Concrete B (night)"; return v },
			id:     repository.CrewEntity.ID,
			list:   func(ctx context.Context) ([]model.Crew, error) { return repo.Crew.List(ctx, uuid.Nil) },
		})
	})

	t.Run("PerformanceMetric", func(t *testing.T) {
		repo := newRepo(t)
		fx := Seed(t, repo)
		checkCRUD(t, crudCase[model.PerformanceMetric]{
			repo:  repo.PerformanceMetric,
			value: NewMetric(fx.Crew.CrewID, model.NewDate(2025, time.March, 3), 0.85, 10, 12, 7.5),
			edited: func(v model.PerformanceMetric) model.PerformanceMetric {
				v.TasksCompleted = 12
				v.Productivity = 1
				return v
			},
			id: repository.PerformanceMetricEntity.ID,
			list: func(ctx context.Context) ([]model.PerformanceMetric, error) {
				return repo.PerformanceMetric.List(ctx, uuid.Nil)
			},
		})
	})

	t.Run("Activity", func(t *testing.T) {
		repo := newRepo(t)
		fx := Seed(t, repo)
		checkCRUD(t, crudCase[model.Activity]{
			repo:   repo.Activity,
			value:  NewActivity(fx.Project.ProjectID, "Pour level 3 slab"),
			edited: func(v model.Activity) model.Activity { v.Constraint = "crane availability"; return v },
			id:     repository.ActivityEntity.ID,
			list:   func(ctx context.Context) ([]model.Activity, error) { return repo.Activity.List(ctx, uuid.Nil) },
		})
	})

	t.Run("Shipment", func(t *testing.T) {
		repo := newRepo(t)
		fx := Seed(t, repo)
		checkCRUD(t, crudCase[model.Shipment]{
			repo:   repo.Shipment,
			value:  NewShipment(fx.Project.ProjectID, model.ShipmentAtPort),
			edited: func(v model.Shipment) model.Shipment { v.Status = model.ShipmentCustoms; return v },
			id:     repository.ShipmentEntity.ID,
			list:   func(ctx context.Context) ([]model.Shipment, error) { return repo.Shipment.List(ctx, uuid.Nil) },
		})
	})

	t.Run("ScheduleStatus", func(t *testing.T) {
		repo := newRepo(t)
		fx := Seed(t, repo)
		checkCRUD(t, crudCase[model.ScheduleStatus]{
			repo:  repo.ScheduleStatus,
			value: NewStatus(fx.Project.ProjectID, "Foundations", model.ScheduleOnSchedule),
			edited: func(v model.ScheduleStatus) model.ScheduleStatus {
				v.Status = model.ScheduleBehind
				return v
			},
			id: repository.ScheduleStatusEntity.ID,
			list: func(ctx context.Context) ([]model.ScheduleStatus, error) {
				return repo.ScheduleStatus.List(ctx, uuid.Nil)
			},
		})
	})

	t.Run("TimeReport", func(t *testing.T) {
		repo := newRepo(t)
		fx := Seed(t, repo)
		checkCRUD(t, crudCase[model.TimeReport]{
			repo:   repo.TimeReport,
			value:  NewTimeReport(fx.Crew.CrewID, fx.Foreman.UserID, 8),
			edited: func(v model.TimeReport) model.TimeReport { v.Hours = 6.25; v.EffortPercentage = 62.5; return v },
			id:     repository.TimeReportEntity.ID,
			list:   func(ctx context.Context) ([]model.TimeReport, error) { return repo.TimeReport.List(ctx, uuid.Nil) },
		})
	})

	t.Run("ScopedList", func(t *testing.T) { testScopedList(t, newRepo(t)) })
	t.Run("TimeReportAuthorization", func(t *testing.T) { testAuthorization(t, newRepo(t)) })
	t.Run("ProjectCrewMetricScenario", func(t *testing.T) { testProjectCrewMetricScenario(t, newRepo(t)) })
	t.Run("ForemanScenario", func(t *testing.T) { testForemanScenario(t, newRepo(t)) })
}

// ── 通用增删改查 ──

type crudCase[T comparable] struct {
	repo   repository.CRUD[T]
	value  T
	edited func(T) T // 保持标识不变的修改
	id     func(T) uuid.UUID
	list   func(ctx context.Context) ([]T, error)
}

func checkCRUD[T comparable](t *testing.T, c crudCase[T]) {
	t.Helper()
	ctx := context.Background()
	id := c.id(c.value)

	created, err := c.repo.Create(ctx, c.value)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if created != c.value {
		t.Errorf("Create 返回值不一致:\n got  %+v\n want %+v", created, c.value)
	}

	got, err := c.repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got != c.value {
		t.Errorf("GetByID 返回值不一致:\n got  %+v\n want %+v", got, c.value)
	}

	// 不存在的标识：更新失败且存储不变
	before := mustList(t, c.list)
	if _, err := c.repo.Update(ctx, uuid.New(), c.edited(c.value)); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("更新不存在的记录期望 ErrNotFound，得到: %v", err)
	}
	if after := mustList(t, c.list); !reflect.DeepEqual(before, after) {
		t.Errorf("失败的更新改变了存储:\n before %+v\n after  %+v", before, after)
	}

	edited := c.edited(c.value)
	updated, err := c.repo.Update(ctx, id, edited)
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated != edited {
		t.Errorf("Update 返回值不一致:\n got  %+v\n want %+v", updated, edited)
	}
	if got, err := c.repo.GetByID(ctx, id); err != nil || got != edited {
		t.Errorf("更新后读取不一致: %+v (%v)", got, err)
	}

	if err := c.repo.Delete(ctx, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("删除不存在的记录期望 ErrNotFound，得到: %v", err)
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := c.repo.GetByID(ctx, id); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("删除后读取期望 ErrNotFound，得到: %v", err)
	}
	if err := c.repo.Delete(ctx, id); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("重复删除期望 ErrNotFound，得到: %v", err)
	}
}

func mustList[T any](t *testing.T, list func(ctx context.Context) ([]T, error)) []T {
	t.Helper()
	rows, err := list(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	return rows
}

// ── 按上级过滤 ──

func testScopedList(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	fx := Seed(t, repo)
	other := MustCreate(t, repo.Project.Create, NewProject("Rail Depot"))
	otherCrew := MustCreate(t, repo.Crew.Create, model.Crew{CrewID: uuid.New(), Name: "Steel A", ProjectID: other.ProjectID})

	want := map[uuid.UUID]bool{fx.Crew.CrewID: true}
	for i := 0; i < 3; i++ {
		c := MustCreate(t, repo.Crew.Create, model.Crew{CrewID: uuid.New(), Name: "Formwork", ProjectID: fx.Project.ProjectID})
		want[c.CrewID] = true
		MustCreate(t, repo.Crew.Create, model.Crew{CrewID: uuid.New(), Name: "Rebar", ProjectID: other.ProjectID})
	}

	crews, err := repo.Crew.List(ctx, fx.Project.ProjectID)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(crews) != len(want) {
		t.Fatalf("期望 %d 个班组，得到 %d", len(want), len(crews))
	}
	for _, c := range crews {
		if !want[c.CrewID] || c.ProjectID != fx.Project.ProjectID {
			t.Errorf("结果包含其他项目的班组: %+v", c)
		}
	}

	all, err := repo.Crew.List(ctx, uuid.Nil)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 2*len(want) {
		t.Errorf("不过滤时期望 %d 个班组，得到 %d", 2*len(want), len(all))
	}

	// 子实体按班组过滤
	d := model.NewDate(2025, time.April, 1)
	m1 := MustCreate(t, repo.PerformanceMetric.Create, NewMetric(fx.Crew.CrewID, d, 0.9, 9, 10, 8))
	MustCreate(t, repo.PerformanceMetric.Create, NewMetric(otherCrew.CrewID, d, 0.5, 5, 10, 8))
	metrics, err := repo.PerformanceMetric.List(ctx, fx.Crew.CrewID)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(metrics) != 1 || metrics[0] != m1 {
		t.Errorf("期望仅返回 %+v，得到 %+v", m1, metrics)
	}

	r1 := MustCreate(t, repo.TimeReport.Create, NewTimeReport(fx.Crew.CrewID, fx.Foreman.UserID, 4))
	MustCreate(t, repo.TimeReport.Create, NewTimeReport(otherCrew.CrewID, fx.Foreman.UserID, 5))
	reports, err := repo.TimeReport.List(ctx, fx.Crew.CrewID)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(reports) != 1 || reports[0] != r1 {
		t.Errorf("期望仅返回 %+v，得到 %+v", r1, reports)
	}

	// 项目下的三类子实体只出现在各自项目的列表中
	MustCreate(t, repo.Activity.Create, NewActivity(fx.Project.ProjectID, "Survey"))
	MustCreate(t, repo.Shipment.Create, NewShipment(fx.Project.ProjectID, model.ShipmentInTransit))
	MustCreate(t, repo.ScheduleStatus.Create, NewStatus(fx.Project.ProjectID, "Survey", model.ScheduleAhead))

	activities, err := repo.Activity.List(ctx, other.ProjectID)
	if err != nil || len(activities) != 0 {
		t.Errorf("其他项目不应有施工活动: %+v (%v)", activities, err)
	}
	shipments, err := repo.Shipment.List(ctx, other.ProjectID)
	if err != nil || len(shipments) != 0 {
		t.Errorf("其他项目不应有货运记录: %+v (%v)", shipments, err)
	}
	statuses, err := repo.ScheduleStatus.List(ctx, fx.Project.ProjectID)
	if err != nil || len(statuses) != 1 {
		t.Errorf("期望本项目 1 条进度记录: %+v (%v)", statuses, err)
	}
}

// ── 工时报告授权 ──

func testAuthorization(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	fx := Seed(t, repo)

	general := MustCreate(t, repo.User.Create, model.User{UserID: uuid.New(), Username: "gf", Role: model.RoleGeneralForeman})
	super := MustCreate(t, repo.User.Create, model.User{UserID: uuid.New(), Username: "sup", Role: model.RoleSuperintendent})

	for name, userID := range map[string]uuid.UUID{
		"GeneralForeman": general.UserID,
		"Superintendent": super.UserID,
		"未知用户":           uuid.New(),
	} {
		report := NewTimeReport(fx.Crew.CrewID, userID, 8)
		if _, err := repo.TimeReport.Create(ctx, report); !errors.Is(err, pkgerrors.ErrPermissionDenied) {
			t.Errorf("%s 创建工时报告期望 ErrPermissionDenied，得到: %v", name, err)
		}
		if _, err := repo.TimeReport.GetByID(ctx, report.ReportID); !errors.Is(err, pkgerrors.ErrNotFound) {
			t.Errorf("%s 的报告不应被保存: %v", name, err)
		}
	}

	stored := MustCreate(t, repo.TimeReport.Create, NewTimeReport(fx.Crew.CrewID, fx.Foreman.UserID, 8))

	// 改由非工长提交：拒绝且原值不变
	amended := stored
	amended.UserID = super.UserID
	amended.Hours = 12
	if _, err := repo.TimeReport.Update(ctx, stored.ReportID, amended); !errors.Is(err, pkgerrors.ErrPermissionDenied) {
		t.Errorf("非工长更新期望 ErrPermissionDenied，得到: %v", err)
	}
	if got, err := repo.TimeReport.GetByID(ctx, stored.ReportID); err != nil || got != stored {
		t.Errorf("拒绝的更新不应修改记录: %+v (%v)", got, err)
	}

	// 目标不存在时优先报告 ErrNotFound
	if _, err := repo.TimeReport.Update(ctx, uuid.New(), amended); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("更新不存在的报告期望 ErrNotFound，得到: %v", err)
	}

	// 角色变更后立即生效
	demoted := fx.Foreman
	demoted.Role = model.RoleConstructionManager
	if _, err := repo.User.Update(ctx, demoted.UserID, demoted); err != nil {
		t.Fatalf("更新用户角色失败: %v", err)
	}
	if _, err := repo.TimeReport.Create(ctx, NewTimeReport(fx.Crew.CrewID, demoted.UserID, 1)); !errors.Is(err, pkgerrors.ErrPermissionDenied) {
		t.Errorf("降级后的用户期望 ErrPermissionDenied，得到: %v", err)
	}
}

// P1 / C1 / M1：按班组过滤绩效只返回 M1
func testProjectCrewMetricScenario(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()

	p1 := MustCreate(t, repo.Project.Create, model.Project{
		ProjectID: uuid.New(),
		Name:      "P1",
		StartDate: model.NewDate(2025, time.January, 1),
		EndDate:   model.NewDate(2025, time.December, 31),
	})
	c1 := MustCreate(t, repo.Crew.Create, model.Crew{CrewID: uuid.New(), Name: "C1", ProjectID: p1.ProjectID})
	m1 := MustCreate(t, repo.PerformanceMetric.Create, NewMetric(c1.CrewID, model.NewDate(2025, time.February, 14), 0.83, 10, 12, 8))

	metrics, err := repo.PerformanceMetric.List(ctx, c1.CrewID)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if !reflect.DeepEqual(metrics, []model.PerformanceMetric{m1}) {
		t.Errorf("期望 [M1]，得到 %+v", metrics)
	}
}

// U1（工长）提交成功；U2（总监）提交失败且不出现在列表中
func testForemanScenario(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	fx := Seed(t, repo)

	u1 := MustCreate(t, repo.User.Create, model.User{UserID: uuid.New(), Username: "U1", Role: model.RoleForeman})
	r1 := MustCreate(t, repo.TimeReport.Create, NewTimeReport(fx.Crew.CrewID, u1.UserID, 7.5))

	u2 := MustCreate(t, repo.User.Create, model.User{UserID: uuid.New(), Username: "U2", Role: model.RoleSuperintendent})
	r2 := NewTimeReport(fx.Crew.CrewID, u2.UserID, 7.5)
	if _, err := repo.TimeReport.Create(ctx, r2); !errors.Is(err, pkgerrors.ErrPermissionDenied) {
		t.Fatalf("U2 提交期望 ErrPermissionDenied，得到: %v", err)
	}

	for _, crewID := range []uuid.UUID{uuid.Nil, fx.Crew.CrewID} {
		reports, err := repo.TimeReport.List(ctx, crewID)
		if err != nil {
			t.Fatalf("List 应成功: %v", err)
		}
		if len(reports) != 1 || reports[0] != r1 {
			t.Errorf("期望仅包含 R1，得到 %+v", reports)
		}
		for _, r := range reports {
			if r.ReportID == r2.ReportID {
				t.Error("R2 不应出现在列表中")
			}
		}
	}
}
