// Package pipeline contain the recruiting pipeline rules: stage catalog,
// urgency status computation, audit comment wording and stage transition
// validation. Everything here is pure, callers pass snapshots in and get
// values back.
package pipeline

// Stage is a named step of the recruiting pipeline
type Stage string

// Pipeline stages in catalog order, plus the out-of-band terminal Rejected
const (
	StageChallengeEmail Stage = "challenge_email"
	StageEquipmentEmail Stage = "equipment_email"
	StageFirstInterview Stage = "first_interview"
	StageSalesMock      Stage = "sales_mock"
	StageSlackMock      Stage = "slack_mock"
	StageHired          Stage = "hired"
	StageRejected       Stage = "rejected"
)

// DateField identifies which scheduled-date column a stage reads
type DateField string

// Scheduled-date fields on an applicant record
const (
	FieldInterviewDate DateField = "interview_date"
	FieldSalesMockDate DateField = "sales_mock_date"
	FieldSlackMockDate DateField = "slack_mock_date"
)

type stageInfo struct {
	label     string
	dateField DateField
}

// stageOrder drives Order and Ordered. Rejected is reachable from any
// stage but holds no position in the linear progression.
var stageOrder = []Stage{
	StageChallengeEmail,
	StageEquipmentEmail,
	StageFirstInterview,
	StageSalesMock,
	StageSlackMock,
	StageHired,
}

var catalog = map[Stage]stageInfo{
	StageChallengeEmail: {label: "Challenge Email"},
	StageEquipmentEmail: {label: "Equipment Email"},
	StageFirstInterview: {label: "First Interview", dateField: FieldInterviewDate},
	StageSalesMock:      {label: "Sales Mockup Calls", dateField: FieldSalesMockDate},
	StageSlackMock:      {label: "Slack Mockup Calls", dateField: FieldSlackMockDate},
	StageHired:          {label: "Hired"},
	StageRejected:       {label: "Rejected"},
}

// Valid reports whether s is one of the known stages
func Valid(s Stage) bool {
	_, ok := catalog[s]
	return ok
}

// Terminal reports whether s ends the pipeline for status purposes
func Terminal(s Stage) bool {
	return s == StageHired || s == StageRejected
}

// Label returns the human display label for a stage. Unknown stages come
// back unchanged so legacy data still renders.
func Label(s Stage) string {
	if info, ok := catalog[s]; ok {
		return info.label
	}
	return string(s)
}

// Order returns the catalog index of a stage, or -1 for Rejected and
// unknown stages. Only the advance/retreat comment wording depends on it.
func Order(s Stage) int {
	for i, stage := range stageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Ordered returns every stage for UI enumeration, Rejected last
func Ordered() []Stage {
	out := make([]Stage, 0, len(stageOrder)+1)
	out = append(out, stageOrder...)
	out = append(out, StageRejected)
	return out
}

// RequiredDateField returns the scheduled-date field a stage needs, if any
func RequiredDateField(s Stage) (DateField, bool) {
	info, ok := catalog[s]
	if !ok || info.dateField == "" {
		return "", false
	}
	return info.dateField, true
}
