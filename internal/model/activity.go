package model

import "github.com/google/uuid"

// Activity 施工活动表，对应 activities，隶属于 Project
type Activity struct {
	ActivityID  uuid.UUID `gorm:"type:uuid;primaryKey"       json:"activity_id" csv:"activity_id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index"   json:"project_id"  csv:"project_id"`
	Description string    `gorm:"type:text;not null"         json:"description" csv:"description"`
	Constraint  string    `gorm:"column:constraint;type:text" json:"constraint"  csv:"constraint"`
	StartDate   Date      `gorm:"type:date"                  json:"start_date"  csv:"start_date"`
	EndDate     Date      `gorm:"type:date"                  json:"end_date"    csv:"end_date"`
}

// TableName 指定表名
func (Activity) TableName() string { return "activities" }
