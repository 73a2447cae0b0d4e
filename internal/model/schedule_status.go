package model

import "github.com/google/uuid"

// ScheduleStatus 阶段进度表，对应 schedule_statuses，隶属于 Project
type ScheduleStatus struct {
	StatusID    uuid.UUID     `gorm:"type:uuid;primaryKey"       json:"status_id"    csv:"status_id"`
	ProjectID   uuid.UUID     `gorm:"type:uuid;not null;index"   json:"project_id"   csv:"project_id"`
	Phase       string        `gorm:"type:varchar(100);not null" json:"phase"        csv:"phase"`
	Status      ScheduleState `gorm:"type:varchar(20);not null"  json:"status"       csv:"status"`
	LastUpdated Date          `gorm:"type:date"                  json:"last_updated" csv:"last_updated"`
}

// TableName 指定表名
func (ScheduleStatus) TableName() string { return "schedule_statuses" }
