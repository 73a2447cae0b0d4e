package model

import "github.com/google/uuid"

// Shipment 物资运输表，对应 shipments，隶属于 Project
type Shipment struct {
	ShipmentID    uuid.UUID      `gorm:"type:uuid;primaryKey"       json:"shipment_id"    csv:"shipment_id"`
	ProjectID     uuid.UUID      `gorm:"type:uuid;not null;index"   json:"project_id"     csv:"project_id"`
	Location      string         `gorm:"type:varchar(200);not null" json:"location"       csv:"location"`
	Contents      string         `gorm:"type:text;not null"         json:"contents"       csv:"contents"`
	Status        ShipmentStatus `gorm:"type:varchar(20);not null"  json:"status"         csv:"status"`
	ArrivalDate   Date           `gorm:"type:date"                  json:"arrival_date"   csv:"arrival_date"`
	CustomsDate   Date           `gorm:"type:date"                  json:"customs_date"   csv:"customs_date"`
	LaydownDate   Date           `gorm:"type:date"                  json:"laydown_date"   csv:"laydown_date"`
	AvailableDate Date           `gorm:"type:date"                  json:"available_date" csv:"available_date"`
}

// TableName 指定表名
func (Shipment) TableName() string { return "shipments" }
