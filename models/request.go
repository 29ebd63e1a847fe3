package models

import "time"

const RequestTable = "requests"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

type Request struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	ScientistID   string        `gorm:"type:uuid;index;not null" json:"scientistId"`
	ItemRequested string        `gorm:"size:200;not null" json:"itemRequested"`
	Quantity      int           `gorm:"not null" json:"quantity"`
	Reason        string        `gorm:"type:text;not null" json:"reason"`
	Status        RequestStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	DivisionID    string        `gorm:"size:16;index;not null" json:"divisionId"`
	ApprovedBy    *string       `gorm:"type:uuid" json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time    `json:"approvedAt,omitempty"`
	CreatedAt     time.Time     `gorm:"index" json:"createdAt"`
}

func (Request) TableName() string { return RequestTable }

type RequestRow struct {
	Request
	ScientistName *string `json:"scientistName,omitempty"`
}
