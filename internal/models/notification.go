package models

import "time"

type Notification struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index" json:"userId"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Message         string     `gorm:"type:text;not null" json:"message"`
	Type            string     `gorm:"size:50;not null" json:"type"`
	RelatedReportID *uint      `json:"relatedReportId"`
	IsRead          bool       `gorm:"not null;default:false" json:"isRead"`
	ReadAt          *time.Time `json:"readAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}
