package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

// StageHistory is one immutable audit record of a stage change. Rows are
// append-only; created_at is the timeline ordering key. The schema is
// fully declared up front, optional attribution columns are nullable
// rather than probed for at runtime.
type StageHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index" json:"applicant_id"`
	Applicant   Applicant `gorm:"foreignKey:ApplicantID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Stage         pipeline.Stage   `gorm:"type:text;not null" json:"stage"`
	PreviousStage *pipeline.Stage  `gorm:"type:text" json:"previous_stage"`
	Result        *pipeline.Result `gorm:"type:text" json:"result"`
	Comment       string           `gorm:"type:varchar(200)" json:"comment"`

	UserEmail       *string `json:"user_email"`
	UserFingerprint *string `json:"user_fingerprint"`

	CreatedAt time.Time `json:"created_at"`
}

// NewStageHistory maps a composed pipeline entry onto a storable row
func NewStageHistory(applicantID uuid.UUID, e pipeline.HistoryEntry, fingerprint *string) StageHistory {
	h := StageHistory{
		ApplicantID: applicantID,
		Stage:       e.Stage,
		Comment:     e.Comment,
		CreatedAt:   e.CreatedAt,
	}
	if e.PreviousStage != "" {
		prev := e.PreviousStage
		h.PreviousStage = &prev
	}
	if e.Result != "" {
		res := e.Result
		h.Result = &res
	}
	if e.Actor != "" {
		actor := e.Actor
		h.UserEmail = &actor
	}
	h.UserFingerprint = fingerprint
	return h
}
