package models

import "time"

const ActivityLogTable = "activity_logs"

// ActivityLog 审计记录，只追加
type ActivityLog struct {
	ID         string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Action     string    `gorm:"size:255;not null" json:"action"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"userId"`
	DivisionID string    `gorm:"size:16;index;not null" json:"divisionId"`
	Details    *string   `json:"details,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (ActivityLog) TableName() string { return ActivityLogTable }

type ActivityLogRow struct {
	ActivityLog
	UserName *string `json:"userName,omitempty"`
}
