package model

import "github.com/google/uuid"

// Project 工程项目表，对应 projects
// start_date <= end_date 不做强制校验
type Project struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey"       json:"project_id" csv:"project_id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"       csv:"name"`
	StartDate Date      `gorm:"type:date"                  json:"start_date" csv:"start_date"`
	EndDate   Date      `gorm:"type:date"                  json:"end_date"   csv:"end_date"`
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }
