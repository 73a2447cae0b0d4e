package model

import "github.com/google/uuid"

// User 用户表，对应 users
type User struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"       json:"user_id"  csv:"user_id"`
	Username string    `gorm:"type:varchar(100);not null" json:"username" csv:"username"`
	Role     Role      `gorm:"type:varchar(32);not null"  json:"role"     csv:"role"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
