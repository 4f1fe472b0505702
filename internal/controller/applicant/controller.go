// Package applicant provides HTTP handlers for applicant CRUD and stage
// transition operations.
package applicant

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/MSMelok/FlixHiringManagement/internal/centraltime"
	"github.com/MSMelok/FlixHiringManagement/internal/database"
	"github.com/MSMelok/FlixHiringManagement/internal/metrics"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/notify"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
	"github.com/MSMelok/FlixHiringManagement/internal/utilities"
)

// pg unique constraint violation
const pgUniqueViolation = "23505"

// ApplicantController handles applicant related endpoints
type ApplicantController struct {
	DB       *database.DBinstanceStruct
	Notifier *notify.StageNotifier
}

// NewApplicantController creates a new instance of ApplicantController with the provided database connection.
func NewApplicantController(db *database.DBinstanceStruct, notifier *notify.StageNotifier) *ApplicantController {
	return &ApplicantController{
		DB:       db,
		Notifier: notifier,
	}
}

// applicantRequest carries the editable applicant fields. Scheduled dates
// arrive as Central Time wall-clock values ("2006-01-02T15:04") and are
// converted to UTC before storage.
type applicantRequest struct {
	FullName     string         `json:"full_name" binding:"required"`
	Email        string         `json:"email" binding:"required"`
	USName       *string        `json:"us_name"`
	Country      *string        `json:"country"`
	ReferredBy   *string        `json:"referred_by"`
	DOB          *string        `json:"dob"`
	Notes        *string        `json:"notes"`
	Tags         []string       `json:"tags"`
	CurrentStage pipeline.Stage `json:"current_stage"`

	InterviewDate *string `json:"interview_date"`
	SalesMockDate *string `json:"sales_mock_date"`
	SlackMockDate *string `json:"slack_mock_date"`

	Fingerprint *string `json:"fingerprint"`
}

// applicantView is an applicant plus its derived urgency data
type applicantView struct {
	model.Applicant
	Status          pipeline.Status `json:"status"`
	NextScheduled   *time.Time      `json:"next_scheduled"`
	NextScheduledCT string          `json:"next_scheduled_ct,omitempty"`
}

func viewOf(a model.Applicant, now time.Time) applicantView {
	v := applicantView{
		Applicant: a,
		Status:    pipeline.ComputeStatus(a.Snapshot(), now),
	}
	if relevant := a.Snapshot().RelevantDate(); relevant != nil {
		v.NextScheduled = relevant
		v.NextScheduledCT = centraltime.FormatHuman(*relevant)
	}
	return v
}

// convertDates turns the request's wall-clock strings into UTC instants.
// An empty pointer clears the stored date, matching the edit form.
func (r *applicantRequest) convertDates() (interview, sales, slack *time.Time, err error) {
	conv := func(s *string) (*time.Time, error) {
		if s == nil || *s == "" {
			return nil, nil
		}
		t, err := centraltime.ToUTC(*s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	if interview, err = conv(r.InterviewDate); err != nil {
		return
	}
	if sales, err = conv(r.SalesMockDate); err != nil {
		return
	}
	slack, err = conv(r.SlackMockDate)
	return
}

func dateErrorResponse(c *gin.Context, err error) {
	if errors.Is(err, centraltime.ErrAmbiguousLocalTime) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "That local time does not exist on the chosen date, pick a time outside the DST switch",
		})
		return
	}
	c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
		Error: fmt.Sprintf("Invalid date value: %s", err.Error()),
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (ac *ApplicantController) loadApplicant(c *gin.Context) (*model.Applicant, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid applicant id"})
		return nil, false
	}

	var applicant model.Applicant
	if err := ac.DB.Where("id = ?", id).First(&applicant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Applicant not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applicant: %s", err.Error()),
		})
		return nil, false
	}
	return &applicant, true
}

func (ac *ApplicantController) recordActivity(activity *model.RecentActivity) {
	if err := ac.DB.RecordActivity(activity); err != nil {
		// The feed is a convenience; a failed insert must not fail the
		// request that produced it.
		log.Printf("failed to record activity: %v", err)
	}
}

// CreateApplicant handles the creation of a new applicant.
// @Summary Create applicant
// @Description Creates the applicant and its synthetic initial-stage history entry
// @Tags Applicant
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param applicant body applicantRequest true "Applicant information"
// @Success 201 {object} model.Applicant "Applicant created"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or email"
// @Failure 409 {object} utilities.ErrorResponse "Duplicate email"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applicant [post]
func (ac *ApplicantController) CreateApplicant(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req applicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := pipeline.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Please enter a valid email address",
		})
		return
	}

	stage := req.CurrentStage
	if stage == "" {
		stage = pipeline.Ordered()[0]
	}
	if !pipeline.Valid(stage) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown stage '%s'", stage),
		})
		return
	}

	interview, sales, slack, err := req.convertDates()
	if err != nil {
		dateErrorResponse(c, err)
		return
	}

	applicant := model.Applicant{
		FullName:      req.FullName,
		Email:         req.Email,
		USName:        req.USName,
		Country:       req.Country,
		ReferredBy:    req.ReferredBy,
		DOB:           req.DOB,
		Notes:         req.Notes,
		Tags:          req.Tags,
		CurrentStage:  stage,
		InterviewDate: interview,
		SalesMockDate: sales,
		SlackMockDate: slack,
		Fingerprint:   req.Fingerprint,
	}

	if err := ac.DB.Create(&applicant).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: "An applicant with this email already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create applicant: %s", err.Error()),
		})
		return
	}

	// Every new applicant gets one synthetic history entry for its
	// initial stage.
	entry := pipeline.CreationEntry(stage, user.ActorLabel(), time.Now().UTC())
	history := model.NewStageHistory(applicant.ID, entry, req.Fingerprint)
	if err := ac.DB.Create(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create history entry: %s", err.Error()),
		})
		return
	}

	actor := user.ActorLabel()
	ac.recordActivity(&model.RecentActivity{
		Type:           model.ActivityApplicantCreated,
		ApplicantID:    applicant.ID,
		ApplicantName:  applicant.FullName,
		ApplicantEmail: applicant.Email,
		Stage:          stage,
		Comment:        entry.Comment,
		UserEmail:      &actor,
		Priority:       model.PriorityApplicantCreated,
	})

	metrics.ApplicantsCreated.Inc()

	c.JSON(http.StatusCreated, applicant)
}

// GetApplicant returns one applicant with its computed status and history.
// @Summary Get applicant
// @Tags Applicant
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Applicant ID"
// @Success 200 {object} map[string]interface{} "Applicant with history"
// @Failure 404 {object} utilities.ErrorResponse "Applicant not found"
// @Router /applicant/{id} [get]
func (ac *ApplicantController) GetApplicant(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"applicant":     viewOf(*applicant, time.Now().UTC()),
		"stage_history": history,
	})
}

// ListApplicants returns applicants with computed statuses, filtered and
// sorted by the query parameters.
// @Summary List applicants
// @Description Supports stage, status, referred_by, search, created-date range filters and sorting
// @Tags Applicant
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param stage query string false "Filter by current stage"
// @Param status query string false "Filter by computed status"
// @Param referred_by query string false "Filter by referral source"
// @Param search query string false "Search name, email, US name and country"
// @Param start query string false "Created-at range start (YYYY-MM-DD)"
// @Param end query string false "Created-at range end (YYYY-MM-DD)"
// @Param sort query string false "Sort order" default(updated-desc)
// @Success 200 {array} applicantView "Applicants"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applicant [get]
func (ac *ApplicantController) ListApplicants(c *gin.Context) {
	var applicants []model.Applicant
	if err := ac.DB.Order("created_at DESC").Find(&applicants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applicants: %s", err.Error()),
		})
		return
	}

	now := time.Now().UTC()
	filtered := applyFilters(applicants, filtersFromQuery(c), now)

	views := make([]applicantView, 0, len(filtered))
	for _, a := range filtered {
		views = append(views, viewOf(a, now))
	}

	c.JSON(http.StatusOK, views)
}

// UpdateApplicant edits an applicant. A stage change made through the
// edit form produces the same automatic history entry a transition does.
// @Summary Update applicant
// @Tags Applicant
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Applicant ID"
// @Param applicant body applicantRequest true "Applicant information"
// @Success 200 {object} model.Applicant "Updated applicant"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or email"
// @Failure 404 {object} utilities.ErrorResponse "Applicant not found"
// @Failure 409 {object} utilities.ErrorResponse "Duplicate email"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applicant/{id} [patch]
func (ac *ApplicantController) UpdateApplicant(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicant, ok := ac.loadApplicant(c)
	if !ok {
		return
	}

	var req applicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := pipeline.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Please enter a valid email address",
		})
		return
	}

	newStage := req.CurrentStage
	if newStage == "" {
		newStage = applicant.CurrentStage
	}
	if !pipeline.Valid(newStage) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unknown stage '%s'", newStage),
		})
		return
	}

	interview, sales, slack, err := req.convertDates()
	if err != nil {
		dateErrorResponse(c, err)
		return
	}

	previousStage := applicant.CurrentStage
	stageChanged := newStage != previousStage

	// The edit form submits every field, so omitted optional values
	// clear the stored ones.
	applicant.FullName = req.FullName
	applicant.Email = req.Email
	applicant.USName = req.USName
	applicant.Country = req.Country
	applicant.ReferredBy = req.ReferredBy
	applicant.DOB = req.DOB
	applicant.Notes = req.Notes
	applicant.Tags = req.Tags
	applicant.CurrentStage = newStage
	applicant.InterviewDate = interview
	applicant.SalesMockDate = sales
	applicant.SlackMockDate = slack
	applicant.Fingerprint = req.Fingerprint

	if err := ac.DB.Save(applicant).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: "An applicant with this email already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update applicant: %s", err.Error()),
		})
		return
	}

	if stageChanged {
		actor := user.ActorLabel()
		entry := pipeline.HistoryEntry{
			Stage:         newStage,
			PreviousStage: previousStage,
			Comment:       pipeline.ComposeComment(previousStage, newStage, false, actor),
			Actor:         actor,
			CreatedAt:     time.Now().UTC(),
		}
		history := model.NewStageHistory(applicant.ID, entry, req.Fingerprint)
		if err := ac.DB.Create(&history).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create history entry: %s", err.Error()),
			})
			return
		}

		prev := previousStage
		ac.recordActivity(&model.RecentActivity{
			Type:           model.ActivityStageChange,
			ApplicantID:    applicant.ID,
			ApplicantName:  applicant.FullName,
			ApplicantEmail: applicant.Email,
			Stage:          newStage,
			PreviousStage:  &prev,
			Comment:        entry.Comment,
			UserEmail:      &actor,
			Priority:       model.PriorityStageChange,
		})

		metrics.StageTransitions.WithLabelValues(string(newStage)).Inc()
		go ac.Notifier.NotifyStageChange(applicant.Email, applicant.FullName, newStage)
	}

	c.JSON(http.StatusOK, applicant)
}

// DeleteApplicant removes an applicant; history rows cascade.
// @Summary Delete applicant
// @Tags Applicant
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Applicant ID"
// @Success 200 {object} utilities.MessageResponse "Applicant deleted"
// @Failure 404 {object} utilities.ErrorResponse "Applicant not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applicant/{id} [delete]
func (ac *ApplicantController) DeleteApplicant(c *gin.Context) {
	applicant, ok := ac.loadApplicant(c)
	if !ok {
		return
	}

	if err := ac.DB.Delete(applicant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete applicant: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Applicant deleted successfully"})
}
