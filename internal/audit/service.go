package audit

import (
	"fmt"
	"log"

	"blotter-backend/internal/database"
	"blotter-backend/internal/models"
)

// FieldChange describes one report field mutation for the audit trail.
type FieldChange struct {
	FieldName string
	OldValue  string
	NewValue  string
}

// RecordChanges writes one audit row per changed field. Best-effort: audit
// failure never fails the mutation it describes.
func RecordChanges(reportID, changedBy uint, action string, changes []FieldChange) {
	for _, ch := range changes {
		entry := models.ReportAuditLog{
			ReportID:  reportID,
			ChangedBy: changedBy,
			Action:    action,
			FieldName: ch.FieldName,
			OldValue:  ch.OldValue,
			NewValue:  ch.NewValue,
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			log.Printf("[WARN] audit log not recorded for report %d: %v", reportID, err)
		}
	}
}

// RecordAction writes a single audit row without field detail (e.g. reopen,
// archive, assignment).
func RecordAction(reportID, changedBy uint, action, detail string) {
	entry := models.ReportAuditLog{
		ReportID:  reportID,
		ChangedBy: changedBy,
		Action:    action,
		NewValue:  detail,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[WARN] audit log not recorded for report %d: %v", reportID, err)
	}
}

// Change is a small helper for building FieldChange lists from typed values.
func Change(field string, oldV, newV any) FieldChange {
	return FieldChange{
		FieldName: field,
		OldValue:  fmt.Sprint(oldV),
		NewValue:  fmt.Sprint(newV),
	}
}
