package models

import "time"

type Suspect struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReportID    uint      `gorm:"not null;index" json:"reportId"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Age         *int      `json:"age"`
	Address     string    `gorm:"size:255" json:"address"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Witness struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReportID      uint      `gorm:"not null;index" json:"reportId"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	ContactNumber string    `gorm:"size:20" json:"contactNumber"`
	Address       string    `gorm:"size:255" json:"address"`
	Statement     string    `gorm:"type:text" json:"statement"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Evidence struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReportID      uint      `gorm:"not null;index" json:"reportId"`
	EvidenceType  string    `gorm:"size:100;not null" json:"evidenceType"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	LocationFound string    `gorm:"size:255" json:"locationFound"`
	PhotoURI      string    `gorm:"size:255" json:"photoUri"`
	CollectedBy   string    `gorm:"size:100" json:"collectedBy"`
	CreatedAt     time.Time `json:"createdAt"`
}
