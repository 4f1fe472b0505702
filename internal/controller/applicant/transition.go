package applicant

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MSMelok/FlixHiringManagement/internal/centraltime"
	"github.com/MSMelok/FlixHiringManagement/internal/metrics"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
	"github.com/MSMelok/FlixHiringManagement/internal/utilities"
)

// transitionRequest moves an applicant to another stage. Date is the
// Central Time wall-clock value from the scheduling form; it is required
// when the target stage has a meeting attached.
type transitionRequest struct {
	TargetStage pipeline.Stage  `json:"target_stage" binding:"required"`
	Result      pipeline.Result `json:"result" binding:"omitempty,oneof=passed failed pending"`
	Comment     string          `json:"comment"`
	Date        *string         `json:"date"`
	Fingerprint *string         `json:"fingerprint"`
}

type resultRequest struct {
	Result pipeline.Result `json:"result" binding:"required,oneof=passed failed pending"`
}

// TransitionApplicant applies a validated stage change.
// @Summary Transition applicant stage
// @Description Validates the transition, updates the applicant and appends the audit entry atomically
// @Tags Applicant
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Applicant ID"
// @Param transition body transitionRequest true "Transition information"
// @Success 200 {object} map[string]interface{} "Updated applicant and new history entry"
// @Failure 400 {object} utilities.ErrorResponse "Invalid transition"
// @Failure 404 {object} utilities.ErrorResponse "Applicant not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applicant/{id}/transition [post]
func (ac *ApplicantController) TransitionApplicant(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicant, ok := ac.loadApplicant(c)
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		t, err := centraltime.ToUTC(*req.Date)
		if err != nil {
			dateErrorResponse(c, err)
			return
		}
		date = &t
	}

	actor := user.ActorLabel()
	plan, err := pipeline.Validate(applicant.Snapshot(), req.TargetStage, date, req.Result, req.Comment, actor, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: transitionErrorMessage(err, req.TargetStage)})
		return
	}

	previousStage := applicant.CurrentStage
	history, err := ac.DB.ApplyTransition(applicant, plan, req.Fingerprint)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to apply transition: %s", err.Error()),
		})
		return
	}

	prev := previousStage
	ac.recordActivity(&model.RecentActivity{
		Type:            model.ActivityStageChange,
		ApplicantID:     applicant.ID,
		ApplicantName:   applicant.FullName,
		ApplicantEmail:  applicant.Email,
		Stage:           plan.Stage,
		PreviousStage:   &prev,
		Result:          history.Result,
		Comment:         history.Comment,
		UserEmail:       &actor,
		UserFingerprint: req.Fingerprint,
		Priority:        model.PriorityStageChange,
	})

	metrics.StageTransitions.WithLabelValues(string(plan.Stage)).Inc()
	go ac.Notifier.NotifyStageChange(applicant.Email, applicant.FullName, plan.Stage)

	c.JSON(http.StatusOK, gin.H{
		"applicant":     viewOf(*applicant, time.Now().UTC()),
		"stage_history": history,
	})
}

func transitionErrorMessage(err error, target pipeline.Stage) string {
	switch {
	case errors.Is(err, pipeline.ErrMissingTargetStage):
		return "Please select a stage"
	case errors.Is(err, pipeline.ErrUnknownTargetStage):
		return fmt.Sprintf("Unknown stage '%s'", target)
	case errors.Is(err, pipeline.ErrMissingRequiredDate):
		return fmt.Sprintf("A scheduled date is required for %s", pipeline.Label(target))
	case errors.Is(err, pipeline.ErrInvalidResult):
		return "Result must be passed, failed or pending"
	default:
		return err.Error()
	}
}

// GetHistory returns the applicant's full stage history, newest first.
// @Summary Get stage history
// @Tags Applicant
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Applicant ID"
// @Success 200 {array} model.StageHistory "History entries"
// @Failure 404 {object} utilities.ErrorResponse "Applicant not found"
// @Router /applicant/{id}/history [get]
func (ac *ApplicantController) GetHistory(c *gin.Context) {
	applicant, ok := ac.loadApplicant(c)
	if !ok {
		return
	}

	var history []model.StageHistory
	if err := ac.DB.Where("applicant_id = ?", applicant.ID).
		Order("created_at DESC").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve history: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, history)
}

// MarkHistoryResult records how a concluded stage went. The entry itself
// stays immutable apart from its result column; the outcome is also
// appended to the comment for the timeline.
// @Summary Mark history entry result
// @Tags Applicant
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "History entry ID"
// @Param result body resultRequest true "Stage result"
// @Success 200 {object} model.StageHistory "Updated entry"
// @Failure 400 {object} utilities.ErrorResponse "Invalid result"
// @Failure 404 {object} utilities.ErrorResponse "History entry not found"
// @Router /history/{id}/result [patch]
func (ac *ApplicantController) MarkHistoryResult(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid history id"})
		return
	}

	var req resultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var history model.StageHistory
	if err := ac.DB.Where("id = ?", id).First(&history).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "History entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve history entry: %s", err.Error()),
		})
		return
	}

	result := req.Result
	history.Result = &result
	// Stay inside the comment column; the result column carries the
	// outcome either way.
	if annotated := fmt.Sprintf("%s. Marked as %s by %s", history.Comment, result, user.ActorLabel()); len(annotated) <= pipeline.MaxCommentLength {
		history.Comment = annotated
	}

	if err := ac.DB.Save(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update history entry: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, history)
}
