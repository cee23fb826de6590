package models

import "time"

const (
	ResolutionStatusPending  = "Pending"
	ResolutionStatusApproved = "Approved"
)

type Resolution struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ReportID       uint      `gorm:"not null;index" json:"reportId"`
	ResolutionDate string    `gorm:"size:50;not null" json:"resolutionDate"` // YYYY-MM-DD
	ResolutionType string    `gorm:"size:100;not null" json:"resolutionType"`
	Description    string    `gorm:"type:text" json:"description"`
	Outcome        string    `gorm:"type:text" json:"outcome"`
	ApprovedBy     string    `gorm:"size:100" json:"approvedBy"`
	DocumentURI    string    `gorm:"size:255" json:"documentUri"`
	Status         string    `gorm:"size:20;not null;default:'Pending'" json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}
