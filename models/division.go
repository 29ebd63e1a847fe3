package models

import "time"

const DivisionTable = "divisions"

// KnownDivisions 固定顺序，统计与种子数据都按这个顺序
var KnownDivisions = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

type Division struct {
	ID          string    `gorm:"size:16;primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Division) TableName() string { return DivisionTable }
