package reports

import (
	"errors"

	"blotter-backend/internal/models"
)

// Case status order. Transitions move forward only; going back to Pending or
// Ongoing from Resolved is a reopen and needs an explicit reason.
var statusOrder = map[models.ReportStatus]int{
	models.StatusPending:  0,
	models.StatusAssigned: 1,
	models.StatusOngoing:  2,
	models.StatusResolved: 3,
	models.StatusClosed:   4,
}

var (
	errUnknownStatus   = errors.New("unknown status")
	errBackwardStatus  = errors.New("status cannot move backwards")
	errNeedsResolution = errors.New("resolution required")
	errReopenNeedsNote = errors.New("reopen reason required")
	errSameStatus      = errors.New("status unchanged")
)

func ValidStatus(s models.ReportStatus) bool {
	_, ok := statusOrder[s]
	return ok
}

func ValidPriority(p models.ReportPriority) bool {
	switch p {
	case models.PriorityLow, models.PriorityNormal, models.PriorityHigh, models.PriorityUrgent:
		return true
	}
	return false
}

// checkTransition validates a status change before it is written.
// hasResolution reports whether the case already carries a resolution record;
// reopenReason is the caller-supplied justification for moving backwards.
func checkTransition(from, to models.ReportStatus, hasResolution bool, reopenReason string) error {
	fromRank, ok := statusOrder[from]
	if !ok {
		return errUnknownStatus
	}
	toRank, ok := statusOrder[to]
	if !ok {
		return errUnknownStatus
	}

	if from == to {
		return errSameStatus
	}

	if toRank < fromRank {
		// Reopening a resolved case is the only permitted backward move.
		if from != models.StatusResolved || (to != models.StatusPending && to != models.StatusOngoing) {
			return errBackwardStatus
		}
		if reopenReason == "" {
			return errReopenNeedsNote
		}
		return nil
	}

	if (to == models.StatusResolved || to == models.StatusClosed) && !hasResolution {
		return errNeedsResolution
	}
	return nil
}
