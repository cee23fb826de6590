package models

import "time"

const HearingStatusScheduled = "Scheduled"

type Hearing struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReportID    uint      `gorm:"not null;index" json:"reportId"`
	HearingDate string    `gorm:"size:50;not null;index" json:"hearingDate"` // YYYY-MM-DD
	HearingTime string    `gorm:"size:50;not null" json:"hearingTime"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	Purpose     string    `gorm:"type:text" json:"purpose"`
	Presider    string    `gorm:"size:100" json:"presider"`
	Attendees   string    `gorm:"type:text" json:"attendees"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Status      string    `gorm:"size:20;not null;default:'Scheduled'" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
