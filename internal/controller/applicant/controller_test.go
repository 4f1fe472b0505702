package applicant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/MSMelok/FlixHiringManagement/internal/centraltime"
	"github.com/MSMelok/FlixHiringManagement/internal/database"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/notify"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

var testDB *database.DBinstanceStruct
var testTeardown func(context.Context, ...testcontainers.TerminateOption) error
var testController *ApplicantController

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	testTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}
	testController = NewApplicantController(testDB, notify.NewStageNotifier(nil))

	m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := testTeardown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "teardown error: %v\n", err)
	}
}

// callAs simulates an authenticated handler call with optional route params.
func callAs(
	t *testing.T,
	user model.User,
	handler gin.HandlerFunc,
	method string,
	body interface{},
	params gin.Params,
) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	b, err := json.Marshal(body)
	assert.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(method, "/", bytes.NewReader(b))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	c.Set("user", user)

	handler(c)

	var resp map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func idParam(id string) gin.Params {
	return gin.Params{{Key: "id", Value: id}}
}

func createTestApplicant(t *testing.T, email string) model.Applicant {
	t.Helper()
	rec, _ := callAs(t, database.TestRecruiter, testController.CreateApplicant, http.MethodPost, map[string]interface{}{
		"full_name": "Handler Test",
		"email":     email,
	}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var created model.Applicant
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestCreateApplicant(t *testing.T) {
	created := createTestApplicant(t, "create.handler@example.com")

	assert.Equal(t, pipeline.StageChallengeEmail, created.CurrentStage, "default initial stage")

	// Creation writes the synthetic initial-stage history entry.
	var history []model.StageHistory
	assert.NoError(t, testDB.Where("applicant_id = ?", created.ID).Find(&history).Error)
	if assert.Len(t, history, 1) {
		assert.Equal(t, pipeline.StageChallengeEmail, history[0].Stage)
		assert.Nil(t, history[0].PreviousStage)
		assert.Contains(t, history[0].Comment, "Applicant created with initial stage by")
	}

	// And an activity feed row.
	var activity model.RecentActivity
	assert.NoError(t, testDB.Where("applicant_id = ?", created.ID).First(&activity).Error)
	assert.Equal(t, model.ActivityApplicantCreated, activity.Type)
}

func TestCreateApplicantInvalidEmail(t *testing.T) {
	rec, resp := callAs(t, database.TestRecruiter, testController.CreateApplicant, http.MethodPost, map[string]interface{}{
		"full_name": "Bad Email",
		"email":     "not an email",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Contains(t, errMsg, "valid email")
}

func TestCreateApplicantDuplicateEmail(t *testing.T) {
	createTestApplicant(t, "dup.handler@example.com")

	rec, resp := callAs(t, database.TestRecruiter, testController.CreateApplicant, http.MethodPost, map[string]interface{}{
		"full_name": "Second Try",
		"email":     "dup.handler@example.com",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Contains(t, errMsg, "already exists")
}

func TestTransitionApplicant(t *testing.T) {
	created := createTestApplicant(t, "transition.handler@example.com")

	form := centraltime.FormatForm(time.Now().UTC().Add(72 * time.Hour))
	rec, resp := callAs(t, database.TestRecruiter, testController.TransitionApplicant, http.MethodPost, map[string]interface{}{
		"target_stage": "first_interview",
		"date":         form,
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var stored model.Applicant
	assert.NoError(t, testDB.Where("id = ?", created.ID).First(&stored).Error)
	assert.Equal(t, pipeline.StageFirstInterview, stored.CurrentStage)
	assert.NotNil(t, stored.InterviewDate)

	historyVal, ok := resp["stage_history"].(map[string]interface{})
	if assert.True(t, ok, "stage_history missing in response") {
		assert.Contains(t, historyVal["comment"], "Moved to First Interview by")
	}
}

func TestTransitionMissingDate(t *testing.T) {
	created := createTestApplicant(t, "transition.nodate@example.com")

	rec, resp := callAs(t, database.TestRecruiter, testController.TransitionApplicant, http.MethodPost, map[string]interface{}{
		"target_stage": "sales_mock",
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Contains(t, errMsg, "scheduled date is required")

	// Nothing changed and no history row was written.
	var stored model.Applicant
	assert.NoError(t, testDB.Where("id = ?", created.ID).First(&stored).Error)
	assert.Equal(t, pipeline.StageChallengeEmail, stored.CurrentStage)

	var count int64
	assert.NoError(t, testDB.Model(&model.StageHistory{}).Where("applicant_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "only the creation entry should exist")
}

func TestTransitionUnknownStage(t *testing.T) {
	created := createTestApplicant(t, "transition.unknown@example.com")

	rec, _ := callAs(t, database.TestRecruiter, testController.TransitionApplicant, http.MethodPost, map[string]interface{}{
		"target_stage": "phone_screen",
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionRejectsUnknownResult(t *testing.T) {
	created := createTestApplicant(t, "transition.badresult@example.com")

	rec, _ := callAs(t, database.TestRecruiter, testController.TransitionApplicant, http.MethodPost, map[string]interface{}{
		"target_stage": "equipment_email",
		"result":       "maybe",
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The stray value never reached a history row.
	var count int64
	assert.NoError(t, testDB.Model(&model.StageHistory{}).
		Where("applicant_id = ? AND result IS NOT NULL", created.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTransitionToRejected(t *testing.T) {
	created := createTestApplicant(t, "transition.reject@example.com")

	rec, resp := callAs(t, database.TestRecruiter, testController.TransitionApplicant, http.MethodPost, map[string]interface{}{
		"target_stage": "rejected",
		"result":       "failed",
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	historyVal, ok := resp["stage_history"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Contains(t, historyVal["comment"], "Moved to Rejected by")
		assert.Equal(t, "failed", historyVal["result"])
	}
}

func TestTransitionGapTimeRejected(t *testing.T) {
	created := createTestApplicant(t, "transition.gap@example.com")

	// 02:30 on the 2025 spring-forward date does not exist in Central Time.
	rec, resp := callAs(t, database.TestRecruiter, testController.TransitionApplicant, http.MethodPost, map[string]interface{}{
		"target_stage": "first_interview",
		"date":         "2025-03-09T02:30",
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	errMsg, _ := resp["error"].(string)
	assert.Contains(t, errMsg, "does not exist")
}

func TestGetHistoryNewestFirst(t *testing.T) {
	created := createTestApplicant(t, "history.order@example.com")

	rec, _ := callAs(t, database.TestRecruiter, testController.TransitionApplicant, http.MethodPost, map[string]interface{}{
		"target_stage": "equipment_email",
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusOK, rec.Code)

	recHist, _ := callAs(t, database.TestRecruiter, testController.GetHistory, http.MethodGet, nil, idParam(created.ID.String()))
	assert.Equal(t, http.StatusOK, recHist.Code)

	var history []model.StageHistory
	assert.NoError(t, json.Unmarshal(recHist.Body.Bytes(), &history))
	if assert.Len(t, history, 2) {
		assert.Equal(t, pipeline.StageEquipmentEmail, history[0].Stage, "newest entry first")
		assert.Equal(t, pipeline.StageChallengeEmail, history[1].Stage)
	}
}

func TestMarkHistoryResult(t *testing.T) {
	created := createTestApplicant(t, "history.result@example.com")

	var entry model.StageHistory
	assert.NoError(t, testDB.Where("applicant_id = ?", created.ID).First(&entry).Error)

	rec, resp := callAs(t, database.TestRecruiter, testController.MarkHistoryResult, http.MethodPatch, map[string]string{
		"result": "passed",
	}, idParam(entry.ID.String()))
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	assert.Equal(t, "passed", resp["result"])
	comment, _ := resp["comment"].(string)
	assert.Contains(t, comment, "Marked as passed by")
}

func TestMarkHistoryResultRejectsUnknownValue(t *testing.T) {
	created := createTestApplicant(t, "history.badresult@example.com")

	var entry model.StageHistory
	assert.NoError(t, testDB.Where("applicant_id = ?", created.ID).First(&entry).Error)

	rec, _ := callAs(t, database.TestRecruiter, testController.MarkHistoryResult, http.MethodPatch, map[string]string{
		"result": "maybe",
	}, idParam(entry.ID.String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateApplicantStageChangeWritesHistory(t *testing.T) {
	created := createTestApplicant(t, "update.stage@example.com")

	rec, _ := callAs(t, database.TestAdminUser, testController.UpdateApplicant, http.MethodPatch, map[string]interface{}{
		"full_name":     created.FullName,
		"email":         created.Email,
		"current_stage": "equipment_email",
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var history []model.StageHistory
	assert.NoError(t, testDB.Where("applicant_id = ?", created.ID).Order("created_at DESC").Find(&history).Error)
	if assert.Len(t, history, 2) {
		assert.Equal(t, pipeline.StageEquipmentEmail, history[0].Stage)
		assert.Contains(t, history[0].Comment, "Moved to Equipment Email by")
	}
}

func TestUpdateApplicantPlainEditNoHistory(t *testing.T) {
	created := createTestApplicant(t, "update.plain@example.com")

	rec, _ := callAs(t, database.TestRecruiter, testController.UpdateApplicant, http.MethodPatch, map[string]interface{}{
		"full_name": "Renamed Person",
		"email":     created.Email,
	}, idParam(created.ID.String()))
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var count int64
	assert.NoError(t, testDB.Model(&model.StageHistory{}).Where("applicant_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "no stage change, no new history")
}

func TestDeleteApplicant(t *testing.T) {
	created := createTestApplicant(t, "delete.handler@example.com")

	rec, _ := callAs(t, database.TestRecruiter, testController.DeleteApplicant, http.MethodDelete, nil, idParam(created.ID.String()))
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	assert.NoError(t, testDB.Model(&model.Applicant{}).Where("id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetApplicantNotFound(t *testing.T) {
	rec, _ := callAs(t, database.TestRecruiter, testController.GetApplicant, http.MethodGet, nil, idParam("00000000-0000-0000-0000-000000000000"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetApplicantBadID(t *testing.T) {
	rec, _ := callAs(t, database.TestRecruiter, testController.GetApplicant, http.MethodGet, nil, idParam("not-a-uuid"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
