package models

import "time"

// Officer extends a User with duty-specific data. At most one row per user.
type Officer struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"userId"`
	User   *User `json:"user,omitempty"`

	BadgeNumber       *string `gorm:"size:50;uniqueIndex" json:"badgeNumber"`
	Rank              string  `gorm:"size:100" json:"rank"`
	Department        string  `gorm:"size:100;not null" json:"department"`
	YearsOfService    int     `json:"yearsOfService"`
	AssignedCases     int     `gorm:"default:0" json:"assignedCases"`
	ResolvedCases     int     `gorm:"default:0" json:"resolvedCases"`
	PerformanceRating string  `gorm:"size:20" json:"performanceRating"`
	IsAvailable       bool    `gorm:"default:true" json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
