package models

import "time"

type ReportStatus string

const (
	StatusPending  ReportStatus = "Pending"
	StatusAssigned ReportStatus = "Assigned"
	StatusOngoing  ReportStatus = "Ongoing"
	StatusResolved ReportStatus = "Resolved"
	StatusClosed   ReportStatus = "Closed"
)

type ReportPriority string

const (
	PriorityLow    ReportPriority = "Low"
	PriorityNormal ReportPriority = "Normal"
	PriorityHigh   ReportPriority = "High"
	PriorityUrgent ReportPriority = "Urgent"
)

// Report is the central blotter case record. Suspects, witnesses, evidence,
// hearings and resolutions hang off it by report_id and are deleted with it.
type Report struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CaseNumber string `gorm:"size:50;uniqueIndex;not null" json:"caseNumber"`

	IncidentType     string `gorm:"size:100;not null;index" json:"incidentType"`
	IncidentDate     string `gorm:"size:50;not null;index" json:"incidentDate"` // YYYY-MM-DD
	IncidentTime     string `gorm:"size:50;not null" json:"incidentTime"`
	IncidentLocation string `gorm:"size:255;not null" json:"incidentLocation"`
	Narrative        string `gorm:"type:text;not null" json:"narrative"`

	ComplainantName    string `gorm:"size:100" json:"complainantName"`
	ComplainantContact string `gorm:"size:20" json:"complainantContact"`
	ComplainantAddress string `gorm:"size:255" json:"complainantAddress"`
	ComplainantEmail   string `gorm:"size:100" json:"complainantEmail"`

	Status   ReportStatus   `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Priority ReportPriority `gorm:"size:20;not null;default:'Normal';index" json:"priority"`

	AssignedOfficer   string `gorm:"size:100" json:"assignedOfficer"`
	AssignedOfficerID *uint  `gorm:"index" json:"assignedOfficerId"`

	FiledBy   string `gorm:"size:100" json:"filedBy"`
	FiledByID *uint  `json:"filedById"`

	IsArchived bool `gorm:"not null;default:false;index" json:"isArchived"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
