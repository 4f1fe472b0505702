package pipeline

import "time"

// Status is the derived urgency label shown next to an applicant
type Status string

// Urgency statuses, from calm to needs-attention
const (
	StatusOK       Status = "ok"
	StatusDue      Status = "due"
	StatusOverdue  Status = "overdue"
	StatusUpcoming Status = "upcoming"
	StatusStalled  Status = "stalled"
)

// Threshold constants for ComputeStatus. Minutes are relative to the
// scheduled instant: a meeting more than 10 minutes in the past is
// overdue, within the next 6 hours it is due, within 12 hours upcoming.
const (
	StalledAfter          = 5 * 24 * time.Hour
	OverdueGraceMinutes   = -10
	DueWindowMinutes      = 360
	UpcomingWindowMinutes = 720
)

// Snapshot is the read-only slice of an applicant record the status rules
// need. Callers build one per evaluation; nothing is retained.
type Snapshot struct {
	CurrentStage  Stage
	InterviewDate *time.Time
	SalesMockDate *time.Time
	SlackMockDate *time.Time
	UpdatedAt     time.Time
}

// ScheduledDate returns the snapshot's value for a given date field
func (s Snapshot) ScheduledDate(f DateField) *time.Time {
	switch f {
	case FieldInterviewDate:
		return s.InterviewDate
	case FieldSalesMockDate:
		return s.SalesMockDate
	case FieldSlackMockDate:
		return s.SlackMockDate
	}
	return nil
}

// RelevantDate resolves the scheduled date mapped to the current stage.
// Dates left over from earlier stages are ignored: once an applicant
// advances, the old stage's date is noise and must not resurrect alarms.
func (s Snapshot) RelevantDate() *time.Time {
	field, ok := RequiredDateField(s.CurrentStage)
	if !ok {
		return nil
	}
	return s.ScheduledDate(field)
}

// ComputeStatus derives the urgency status of an applicant at a given
// instant. Staleness overrides date proximity: an applicant untouched for
// five days reports stalled even with a meeting an hour away.
func ComputeStatus(s Snapshot, now time.Time) Status {
	if !Terminal(s.CurrentStage) && now.Sub(s.UpdatedAt) >= StalledAfter {
		return StatusStalled
	}

	relevant := s.RelevantDate()
	if relevant == nil {
		return StatusOK
	}

	minutes := relevant.Sub(now).Minutes()
	switch {
	case minutes < OverdueGraceMinutes:
		return StatusOverdue
	case minutes <= DueWindowMinutes:
		return StatusDue
	case minutes <= UpcomingWindowMinutes:
		return StatusUpcoming
	default:
		return StatusOK
	}
}
