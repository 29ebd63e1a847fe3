package models

import "time"

const InventoryTable = "inventory_items"

// ItemStatus 生命周期：active/maintenance/retired
type ItemStatus string

const (
	ItemActive      ItemStatus = "active"
	ItemMaintenance ItemStatus = "maintenance"
	ItemRetired     ItemStatus = "retired"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemActive, ItemMaintenance, ItemRetired:
		return true
	}
	return false
}

type CalibrationStatus string

const (
	CalibrationCurrent CalibrationStatus = "current"
	CalibrationDue     CalibrationStatus = "due"
	CalibrationOverdue CalibrationStatus = "overdue"
)

func (s CalibrationStatus) Valid() bool {
	switch s {
	case CalibrationCurrent, CalibrationDue, CalibrationOverdue:
		return true
	}
	return false
}

type InventoryItem struct {
	ID                string            `gorm:"type:uuid;primaryKey" json:"id"`
	ItemName          string            `gorm:"size:200;not null" json:"itemName"`
	Category          string            `gorm:"size:120;not null" json:"category"`
	Quantity          int               `gorm:"not null;default:0" json:"quantity"`
	Location          string            `gorm:"size:120;not null" json:"location"`
	Status            ItemStatus        `gorm:"size:20;not null;default:'active'" json:"status"`
	DivisionID        string            `gorm:"size:16;index;not null" json:"divisionId"`
	AddedBy           string            `gorm:"type:uuid;not null" json:"addedBy"`
	ScientistAssigned *string           `gorm:"type:uuid" json:"scientistAssigned,omitempty"`
	CalibrationDate   time.Time         `json:"calibrationDate"`
	CalibrationStatus CalibrationStatus `gorm:"size:20;not null;default:'current'" json:"calibrationStatus"`
	LastUpdated       time.Time         `gorm:"autoUpdateTime" json:"lastUpdated"`
	CreatedAt         time.Time         `gorm:"index" json:"createdAt"`
}

func (InventoryItem) TableName() string { return InventoryTable }

// InventoryRow 带上添加人/负责科学家的显示名
type InventoryRow struct {
	InventoryItem
	AddedByName   *string `json:"addedByName,omitempty"`
	ScientistName *string `json:"scientistName,omitempty"`
}
