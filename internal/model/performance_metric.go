package model

import "github.com/google/uuid"

// PerformanceMetric 班组绩效表，对应 performance_metrics，隶属于 Crew
type PerformanceMetric struct {
	MetricID       uuid.UUID `gorm:"type:uuid;primaryKey"     json:"metric_id"       csv:"metric_id"`
	CrewID         uuid.UUID `gorm:"type:uuid;not null;index" json:"crew_id"         csv:"crew_id"`
	Date           Date      `gorm:"type:date"                json:"date"            csv:"date"`
	Productivity   float64   `gorm:"not null"                 json:"productivity"    csv:"productivity"`
	TasksCompleted int       `gorm:"not null"                 json:"tasks_completed" csv:"tasks_completed"` // 期望 <= TasksTotal，不强制
	TasksTotal     int       `gorm:"not null"                 json:"tasks_total"     csv:"tasks_total"`
	HoursWorked    float64   `gorm:"not null"                 json:"hours_worked"    csv:"hours_worked"`
}

// TableName 指定表名
func (PerformanceMetric) TableName() string { return "performance_metrics" }
