package pipeline

import (
	"errors"
	"regexp"
	"time"
)

// Result records how a stage went once it is concluded
type Result string

// Stage results
const (
	ResultPassed  Result = "passed"
	ResultFailed  Result = "failed"
	ResultPending Result = "pending"
)

// Valid reports whether r is one of the known result values
func (r Result) Valid() bool {
	switch r {
	case ResultPassed, ResultFailed, ResultPending:
		return true
	}
	return false
}

// Validation failures. All are recoverable: the caller maps them to
// user-facing messages and nothing is retried here.
var (
	ErrMissingTargetStage  = errors.New("no target stage selected")
	ErrUnknownTargetStage  = errors.New("unknown target stage")
	ErrMissingRequiredDate = errors.New("target stage requires a scheduled date")
	ErrInvalidResult       = errors.New("unknown result value")
	ErrInvalidEmail        = errors.New("invalid email address")
)

// Same shape rule the intake form applies: local@domain.tld
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the local@domain.tld shape
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// HistoryEntry is the audit record a transition produces. The persistence
// layer owns storage; this is just the composed content.
type HistoryEntry struct {
	Stage         Stage
	PreviousStage Stage
	Result        Result
	Comment       string
	Actor         string
	CreatedAt     time.Time
}

// TransitionPlan tells the caller what to persist: the new stage, the
// scheduled-date field to set when the target stage needs one, and the
// history entry to append. History insertion must be sequenced after the
// applicant update commits; that ordering is the caller's obligation.
type TransitionPlan struct {
	Stage     Stage
	DateField DateField
	Date      *time.Time
	History   HistoryEntry
}

// Validate checks a proposed stage transition against the catalog and
// returns the plan to apply. Any stage is reachable from any other in one
// step; the only hard requirements are a target stage and, for meeting
// stages, a scheduled date.
func Validate(s Snapshot, target Stage, date *time.Time, result Result, comment, actor string, now time.Time) (TransitionPlan, error) {
	if target == "" {
		return TransitionPlan{}, ErrMissingTargetStage
	}
	if !Valid(target) {
		return TransitionPlan{}, ErrUnknownTargetStage
	}
	// Result is optional but closed: anything outside the enum would end
	// up persisted on the history row.
	if result != "" && !result.Valid() {
		return TransitionPlan{}, ErrInvalidResult
	}

	plan := TransitionPlan{Stage: target}

	if field, ok := RequiredDateField(target); ok {
		if date == nil {
			return TransitionPlan{}, ErrMissingRequiredDate
		}
		plan.DateField = field
		plan.Date = date
	}

	plan.History = HistoryEntry{
		Stage:         target,
		PreviousStage: s.CurrentStage,
		Result:        result,
		Comment:       ResolveComment(comment, s.CurrentStage, target, false, actor),
		Actor:         actor,
		CreatedAt:     now,
	}

	return plan, nil
}

// CreationEntry builds the synthetic history record every new applicant
// gets for its initial stage.
func CreationEntry(initial Stage, actor string, now time.Time) HistoryEntry {
	return HistoryEntry{
		Stage:     initial,
		Comment:   ComposeComment("", initial, true, actor),
		Actor:     actor,
		CreatedAt: now,
	}
}
