package models

import "time"

// Log tables are append-only: rows are inserted and pruned by age, never updated.

type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	Action     string    `gorm:"size:255;not null" json:"action"`
	EntityType string    `gorm:"size:100" json:"entityType"`
	EntityID   uint      `json:"entityId"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"size:45" json:"ipAddress"`
	UserAgent  string    `gorm:"size:255" json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReportAuditLog records one field change on a report.
type ReportAuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReportID  uint      `gorm:"not null;index" json:"reportId"`
	ChangedBy uint      `gorm:"not null" json:"changedBy"`
	Action    string    `gorm:"size:255;not null" json:"action"`
	FieldName string    `gorm:"size:100" json:"fieldName"`
	OldValue  string    `gorm:"type:text" json:"oldValue"`
	NewValue  string    `gorm:"type:text" json:"newValue"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	LoginStatusSuccess = "success"
	LoginStatusFailed  = "failed"
)

type LoginLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index" json:"userId"`
	IPAddress     string    `gorm:"size:45;not null" json:"ipAddress"`
	Device        string    `gorm:"size:100" json:"device"`
	UserAgent     string    `gorm:"size:255" json:"userAgent"`
	Status        string    `gorm:"size:20;not null;default:'success'" json:"status"`
	FailureReason string    `gorm:"size:255" json:"failureReason"`
	CreatedAt     time.Time `json:"createdAt"`
}

type ErrorLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Severity  string    `gorm:"size:20;not null;index" json:"severity"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Stack     string    `gorm:"type:text" json:"stack"`
	Endpoint  string    `gorm:"size:255" json:"endpoint"`
	UserID    *uint     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
