// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

// Applicant represents one candidate moving through the recruiting
// pipeline. Scheduled meeting timestamps are stored as UTC instants; only
// the field mapped to the current stage matters for status, the others are
// kept for historical display.
type Applicant struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	FullName     string         `gorm:"not null" json:"full_name" binding:"required"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email" binding:"required"`
	USName       *string        `json:"us_name"`
	Country      *string        `json:"country"`
	ReferredBy   *string        `json:"referred_by"`
	DOB          *string        `gorm:"type:date" json:"dob"`
	Notes        *string        `json:"notes"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags"`
	CurrentStage pipeline.Stage `gorm:"type:text;not null;default:'challenge_email'" json:"current_stage"`

	InterviewDate *time.Time `json:"interview_date"`
	SalesMockDate *time.Time `json:"sales_mock_date"`
	SlackMockDate *time.Time `json:"slack_mock_date"`

	// Opaque audit string identifying the client that last mutated the
	// record. Attribution only, never an access-control input.
	Fingerprint *string `json:"fingerprint"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot builds the read-only view the pipeline engine consumes
func (a *Applicant) Snapshot() pipeline.Snapshot {
	return pipeline.Snapshot{
		CurrentStage:  a.CurrentStage,
		InterviewDate: a.InterviewDate,
		SalesMockDate: a.SalesMockDate,
		SlackMockDate: a.SlackMockDate,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ScheduledDate returns the applicant's value for a scheduled-date field
func (a *Applicant) ScheduledDate(f pipeline.DateField) *time.Time {
	return a.Snapshot().ScheduledDate(f)
}

// SetScheduledDate assigns the scheduled-date field named by the catalog
func (a *Applicant) SetScheduledDate(f pipeline.DateField, t *time.Time) {
	switch f {
	case pipeline.FieldInterviewDate:
		a.InterviewDate = t
	case pipeline.FieldSalesMockDate:
		a.SalesMockDate = t
	case pipeline.FieldSlackMockDate:
		a.SlackMockDate = t
	}
}

// Age computes the applicant's age in years from the stored DOB, 0 when
// the DOB is missing or malformed.
func (a *Applicant) Age(now time.Time) int {
	if a.DOB == nil {
		return 0
	}
	dob, err := time.Parse("2006-01-02", *a.DOB)
	if err != nil {
		return 0
	}
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
