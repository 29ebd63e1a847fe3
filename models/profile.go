package models

import "time"

const ProfileTable = "profiles"

// Role 访问级别
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleDivisionPersonnel Role = "division_personnel"
	RoleScientist         Role = "scientist"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDivisionPersonnel, RoleScientist:
		return true
	}
	return false
}

// AdminDivision is recorded for profiles that have no division of their own.
const AdminDivision = "ADMIN"

type Profile struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role         Role       `gorm:"size:32;not null;default:'scientist'" json:"role"`
	DivisionID   *string    `gorm:"size:16;index" json:"divisionId,omitempty"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	LastSeenAt   *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Profile) TableName() string { return ProfileTable }

// Division returns the profile's division, or AdminDivision when unset.
func (p Profile) Division() string {
	if p.DivisionID == nil || *p.DivisionID == "" {
		return AdminDivision
	}
	return *p.DivisionID
}
