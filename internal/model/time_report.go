package model

import "github.com/google/uuid"

// TimeReport 工时报告表，对应 time_reports，隶属于 Crew，由 User（必须为工长）提交
type TimeReport struct {
	ReportID         uuid.UUID `gorm:"type:uuid;primaryKey"       json:"report_id"         csv:"report_id"`
	CrewID           uuid.UUID `gorm:"type:uuid;not null;index"   json:"crew_id"           csv:"crew_id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"   json:"user_id"           csv:"user_id"`
	Date             Date      `gorm:"type:date"                  json:"date"              csv:"date"`
	MemberName       string    `gorm:"type:varchar(100);not null" json:"member_name"       csv:"member_name"`
	Task             string    `gorm:"type:text;not null"         json:"task"              csv:"task"`
	Hours            float64   `gorm:"not null"                   json:"hours"             csv:"hours"`
	EffortPercentage float64   `gorm:"not null"                   json:"effort_percentage" csv:"effort_percentage"`
}

// TableName 指定表名
func (TimeReport) TableName() string { return "time_reports" }
