package model

import "github.com/google/uuid"

// Crew 班组表，对应 crews，隶属于 Project
type Crew struct {
	CrewID    uuid.UUID `gorm:"type:uuid;primaryKey"       json:"crew_id"    csv:"crew_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"       csv:"name"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"   json:"project_id" csv:"project_id"`
}

// TableName 指定表名
func (Crew) TableName() string { return "crews" }
