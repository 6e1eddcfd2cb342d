package cashreport

// StatusCode is the stable machine code of a report lifecycle state.
type StatusCode string

const (
	StatusSent      StatusCode = "sent"
	StatusChecking  StatusCode = "checking"
	StatusConfirmed StatusCode = "confirmed"
	StatusCancelled StatusCode = "cancelled"
)

// IsLocked reports whether a report in this state may no longer be edited.
// A report rolled back from checking to sent becomes editable again;
// manual status correction is the supported way to unlock resubmission.
func IsLocked(code StatusCode) bool {
	return code == StatusChecking || code == StatusConfirmed
}

// allowedTransitions is the explicit lifecycle table:
// sent -> checking -> confirmed, with a reopen edge back to sent and
// cancellation from either pre-confirmed state.
var allowedTransitions = map[StatusCode][]StatusCode{
	StatusSent:      {StatusChecking, StatusCancelled},
	StatusChecking:  {StatusConfirmed, StatusSent, StatusCancelled},
	StatusConfirmed: {},
	StatusCancelled: {},
}

// CanTransition reports whether moving from one state to another is allowed
// by the lifecycle table. Admin overrides bypass this check but are audited.
func CanTransition(from, to StatusCode) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
