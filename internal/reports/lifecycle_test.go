package reports

import (
	"errors"
	"testing"

	"blotter-backend/internal/models"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []models.ReportStatus{
		models.StatusPending, models.StatusAssigned, models.StatusOngoing,
		models.StatusResolved, models.StatusClosed,
	} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be a valid status", s)
		}
	}
	if ValidStatus("Open") {
		t.Error("expected 'Open' to be rejected")
	}
	if ValidStatus("") {
		t.Error("expected empty status to be rejected")
	}
}

func TestValidPriority(t *testing.T) {
	if !ValidPriority(models.PriorityUrgent) {
		t.Error("expected Urgent to be valid")
	}
	if ValidPriority("Critical") {
		t.Error("expected 'Critical' to be rejected")
	}
}

func TestForwardTransitions(t *testing.T) {
	cases := []struct {
		from, to      models.ReportStatus
		hasResolution bool
		wantErr       error
	}{
		{models.StatusPending, models.StatusAssigned, false, nil},
		{models.StatusAssigned, models.StatusOngoing, false, nil},
		{models.StatusOngoing, models.StatusResolved, true, nil},
		{models.StatusResolved, models.StatusClosed, true, nil},
		{models.StatusPending, models.StatusResolved, true, nil},
		{models.StatusOngoing, models.StatusResolved, false, errNeedsResolution},
		{models.StatusOngoing, models.StatusClosed, false, errNeedsResolution},
	}
	for _, tc := range cases {
		err := checkTransition(tc.from, tc.to, tc.hasResolution, "")
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("checkTransition(%s -> %s, resolution=%v) = %v, want %v",
				tc.from, tc.to, tc.hasResolution, err, tc.wantErr)
		}
	}
}

func TestBackwardTransitionsAreReopens(t *testing.T) {
	// Resolved -> Pending/Ongoing is a reopen and needs a reason.
	if err := checkTransition(models.StatusResolved, models.StatusPending, true, ""); !errors.Is(err, errReopenNeedsNote) {
		t.Errorf("reopen without reason = %v, want %v", err, errReopenNeedsNote)
	}
	if err := checkTransition(models.StatusResolved, models.StatusOngoing, true, "new witness came forward"); err != nil {
		t.Errorf("reopen with reason = %v, want nil", err)
	}

	// Any other backward move is forbidden outright.
	if err := checkTransition(models.StatusClosed, models.StatusOngoing, true, "reason"); !errors.Is(err, errBackwardStatus) {
		t.Errorf("Closed -> Ongoing = %v, want %v", err, errBackwardStatus)
	}
	if err := checkTransition(models.StatusAssigned, models.StatusPending, false, "reason"); !errors.Is(err, errBackwardStatus) {
		t.Errorf("Assigned -> Pending = %v, want %v", err, errBackwardStatus)
	}
}

func TestSameStatusIsNoop(t *testing.T) {
	if err := checkTransition(models.StatusOngoing, models.StatusOngoing, false, ""); !errors.Is(err, errSameStatus) {
		t.Errorf("same status = %v, want %v", err, errSameStatus)
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	if err := checkTransition(models.StatusPending, "Open", false, ""); !errors.Is(err, errUnknownStatus) {
		t.Errorf("unknown target = %v, want %v", err, errUnknownStatus)
	}
	if err := checkTransition("Weird", models.StatusPending, false, ""); !errors.Is(err, errUnknownStatus) {
		t.Errorf("unknown source = %v, want %v", err, errUnknownStatus)
	}
}
