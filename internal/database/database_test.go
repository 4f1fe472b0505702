package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

var testDB *DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error

func TestMain(tm *testing.M) {
	var err error
	testTeardown, testDB, err = GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	tm.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()

	assert.Equal(t, "up", stats["status"])
	assert.NotContains(t, stats, "error")
	assert.Equal(t, "It's healthy", stats["message"])
}

func createApplicant(t *testing.T, email string, stage pipeline.Stage) *m.Applicant {
	t.Helper()
	a := &m.Applicant{
		FullName:     "Txn Test",
		Email:        email,
		CurrentStage: stage,
	}
	assert.NoError(t, testDB.Create(a).Error)
	return a
}

func TestApplyTransition(t *testing.T) {
	a := createApplicant(t, "txn.apply@example.com", pipeline.StageChallengeEmail)

	date := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	plan, err := pipeline.Validate(a.Snapshot(), pipeline.StageFirstInterview, &date, "", "", "hr@flix.test", time.Now().UTC())
	assert.NoError(t, err)

	fp := "device-123"
	history, err := testDB.ApplyTransition(a, plan, &fp)
	assert.NoError(t, err)

	// Applicant row carries the new stage and the scheduled date.
	var stored m.Applicant
	assert.NoError(t, testDB.Where("id = ?", a.ID).First(&stored).Error)
	assert.Equal(t, pipeline.StageFirstInterview, stored.CurrentStage)
	if assert.NotNil(t, stored.InterviewDate) {
		assert.WithinDuration(t, date, *stored.InterviewDate, time.Second)
	}

	// History row landed in the same commit.
	var storedHistory m.StageHistory
	assert.NoError(t, testDB.Where("id = ?", history.ID).First(&storedHistory).Error)
	assert.Equal(t, pipeline.StageFirstInterview, storedHistory.Stage)
	if assert.NotNil(t, storedHistory.PreviousStage) {
		assert.Equal(t, pipeline.StageChallengeEmail, *storedHistory.PreviousStage)
	}
	if assert.NotNil(t, storedHistory.UserFingerprint) {
		assert.Equal(t, fp, *storedHistory.UserFingerprint)
	}
}

func TestRecordActivityPrunesBeyondCap(t *testing.T) {
	a := createApplicant(t, "txn.activity@example.com", pipeline.StageChallengeEmail)

	for i := 0; i < m.RecentActivityCap+5; i++ {
		err := testDB.RecordActivity(&m.RecentActivity{
			Type:           m.ActivityStageChange,
			ApplicantID:    a.ID,
			ApplicantName:  a.FullName,
			ApplicantEmail: a.Email,
			Stage:          pipeline.StageEquipmentEmail,
			Comment:        fmt.Sprintf("entry %d", i),
			CreatedAt:      time.Now().UTC().Add(time.Duration(i) * time.Millisecond),
		})
		assert.NoError(t, err)
	}

	var count int64
	assert.NoError(t, testDB.Model(&m.RecentActivity{}).Count(&count).Error)
	assert.LessOrEqual(t, count, int64(m.RecentActivityCap))

	// The newest entry survived the pruning.
	var newest m.RecentActivity
	assert.NoError(t, testDB.Order("created_at DESC").First(&newest).Error)
	assert.Equal(t, fmt.Sprintf("entry %d", m.RecentActivityCap+4), newest.Comment)
}

func TestEraseAll(t *testing.T) {
	a := createApplicant(t, "txn.erase@example.com", pipeline.StageChallengeEmail)
	entry := pipeline.CreationEntry(a.CurrentStage, "hr@flix.test", time.Now().UTC())
	history := m.NewStageHistory(a.ID, entry, nil)
	assert.NoError(t, testDB.Create(&history).Error)

	assert.NoError(t, testDB.EraseAll())

	var applicants, histories, activities int64
	assert.NoError(t, testDB.Model(&m.Applicant{}).Count(&applicants).Error)
	assert.NoError(t, testDB.Model(&m.StageHistory{}).Count(&histories).Error)
	assert.NoError(t, testDB.Model(&m.RecentActivity{}).Count(&activities).Error)
	assert.Zero(t, applicants)
	assert.Zero(t, histories)
	assert.Zero(t, activities)

	// Users are untouched, the erase only clears applicant data.
	var users int64
	assert.NoError(t, testDB.Model(&m.User{}).Count(&users).Error)
	assert.NotZero(t, users)
}
