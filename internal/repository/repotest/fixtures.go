package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"sitecms/internal/model"
	"sitecms/internal/repository"
)

// Fixture 子实体测试所需的上级记录
type Fixture struct {
	Project model.Project
	Crew    model.Crew
	Foreman model.User
}

// Seed 创建一个项目、其下一个班组和一名工长
func Seed(t *testing.T, repo *repository.Repository) Fixture {
	t.Helper()
	project := MustCreate(t, repo.Project.Create, NewProject("Seed Project"))
	return Fixture{
		Project: project,
		Crew:    MustCreate(t, repo.Crew.Create, model.Crew{CrewID: uuid.New(), Name: "Seed Crew", ProjectID: project.ProjectID}),
		Foreman: MustCreate(t, repo.User.Create, model.User{UserID: uuid.New(), Username: "foreman", Role: model.RoleForeman}),
	}
}

// MustCreate 调用 create 并在失败时终止测试
func MustCreate[T any](t *testing.T, create func(context.Context, T) (T, error), v T) T {
	t.Helper()
	out, err := create(context.Background(), v)
	if err != nil {
		t.Fatalf("创建 %T 失败: %v", v, err)
	}
	return out
}

func NewProject(name string) model.Project {
	return model.Project{
		ProjectID: uuid.New(),
		Name:      name,
		StartDate: model.NewDate(2025, time.January, 6),
		EndDate:   model.NewDate(2025, time.November, 28),
	}
}

func NewMetric(crewID uuid.UUID, date model.Date, productivity float64, completed, total int, hours float64) model.PerformanceMetric {
	return model.PerformanceMetric{
		MetricID:       uuid.New(),
		CrewID:         crewID,
		Date:           date,
		Productivity:   productivity,
		TasksCompleted: completed,
		TasksTotal:     total,
		HoursWorked:    hours,
	}
}

func NewActivity(projectID uuid.UUID, description string) model.Activity {
	return model.Activity{
		ActivityID:  uuid.New(),
		ProjectID:   projectID,
		Description: description,
		Constraint:  "",
		StartDate:   model.NewDate(2025, time.May, 5),
		EndDate:     model.NewDate(2025, time.May, 9),
	}
}

func NewShipment(projectID uuid.UUID, status model.ShipmentStatus) model.Shipment {
	return model.Shipment{
		ShipmentID:    uuid.New(),
		ProjectID:     projectID,
		Location:      "Port of Rotterdam",
		Contents:      "Rebar, 40t",
		Status:        status,
		ArrivalDate:   model.NewDate(2025, time.March, 1),
		CustomsDate:   model.NewDate(2025, time.March, 4),
		LaydownDate:   model.NewDate(2025, time.March, 10),
		AvailableDate: model.NewDate(2025, time.March, 12),
	}
}

func NewStatus(projectID uuid.UUID, phase string, state model.ScheduleState) model.ScheduleStatus {
	return model.ScheduleStatus{
		StatusID:    uuid.New(),
		ProjectID:   projectID,
		Phase:       phase,
		Status:      state,
		LastUpdated: model.NewDate(2025, time.June, 2),
	}
}

func NewTimeReport(crewID, userID uuid.UUID, hours float64) model.TimeReport {
	return model.TimeReport{
		ReportID:         uuid.New(),
		CrewID:           crewID,
		UserID:           userID,
		Date:             model.NewDate(2025, time.June, 3),
		MemberName:       "J. Smith",
		Task:             "Formwork, grid C",
		Hours:            hours,
		EffortPercentage: hours / 8 * 100,
	}
}
