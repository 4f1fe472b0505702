package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

func TestApplicantAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	dob := "1990-06-16"
	a := Applicant{DOB: &dob}
	assert.Equal(t, 34, a.Age(now), "birthday tomorrow")

	dob = "1990-06-15"
	assert.Equal(t, 35, a.Age(now), "birthday today")

	a.DOB = nil
	assert.Equal(t, 0, a.Age(now))

	malformed := "June 15th 1990"
	a.DOB = &malformed
	assert.Equal(t, 0, a.Age(now))
}

func TestApplicantScheduledDateRoundTrip(t *testing.T) {
	when := time.Now().UTC()
	var a Applicant

	a.SetScheduledDate(pipeline.FieldSalesMockDate, &when)
	assert.Nil(t, a.InterviewDate)
	if assert.NotNil(t, a.ScheduledDate(pipeline.FieldSalesMockDate)) {
		assert.Equal(t, when, *a.SalesMockDate)
	}
}

func TestApplicantSnapshot(t *testing.T) {
	when := time.Now().UTC()
	a := Applicant{
		CurrentStage:  pipeline.StageFirstInterview,
		InterviewDate: &when,
		UpdatedAt:     when,
	}

	s := a.Snapshot()
	assert.Equal(t, pipeline.StageFirstInterview, s.CurrentStage)
	if assert.NotNil(t, s.RelevantDate()) {
		assert.Equal(t, when, *s.RelevantDate())
	}
}

func TestNewStageHistoryOptionalColumns(t *testing.T) {
	entry := pipeline.HistoryEntry{
		Stage:     pipeline.StageChallengeEmail,
		Comment:   "Applicant created with initial stage by hr@flix.test",
		Actor:     "hr@flix.test",
		CreatedAt: time.Now().UTC(),
	}

	h := NewStageHistory(uuid.Nil, entry, nil)
	assert.Nil(t, h.PreviousStage, "creation entry has no previous stage")
	assert.Nil(t, h.Result)
	assert.Nil(t, h.UserFingerprint)
	if assert.NotNil(t, h.UserEmail) {
		assert.Equal(t, "hr@flix.test", *h.UserEmail)
	}
}

func TestActorLabelPrecedence(t *testing.T) {
	u := User{Username: "jsmith", Email: "j@flix.test"}
	assert.Equal(t, "j@flix.test", u.ActorLabel())

	u.Email = ""
	assert.Equal(t, "jsmith", u.ActorLabel())

	u.Username = ""
	assert.Equal(t, "System", u.ActorLabel())
}
