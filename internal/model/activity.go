package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

// RecentActivityCap is how many feed rows are retained; older rows beyond
// the cap are pruned on insert.
const RecentActivityCap = 20

// Activity feed entry types
const (
	ActivityStageChange      = "stage_change"
	ActivityApplicantCreated = "applicant_created"
)

// Feed priorities, higher sorts first. Stage changes outrank creations.
const (
	PriorityApplicantCreated = 0
	PriorityStageChange      = 1
)

// RecentActivity is a denormalized dashboard feed row. It duplicates the
// applicant name/email so the feed survives applicant deletion.
type RecentActivity struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Type string    `gorm:"type:text;not null" json:"type"`

	ApplicantID    uuid.UUID `gorm:"type:uuid;index" json:"applicant_id"`
	ApplicantName  string    `json:"applicant_name"`
	ApplicantEmail string    `json:"applicant_email"`

	Stage         pipeline.Stage   `gorm:"type:text" json:"stage"`
	PreviousStage *pipeline.Stage  `gorm:"type:text" json:"previous_stage"`
	Result        *pipeline.Result `gorm:"type:text" json:"result"`
	Comment       string           `gorm:"type:varchar(200)" json:"comment"`

	UserEmail       *string `json:"user_email"`
	UserFingerprint *string `json:"user_fingerprint"`

	// Higher priority rows sort first within the feed
	Priority  int       `gorm:"default:0" json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}
