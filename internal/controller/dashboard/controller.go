// Package dashboard serves the aggregated pipeline overview: per-stage
// counts, urgency totals and the recent activity feed.
package dashboard

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MSMelok/FlixHiringManagement/internal/database"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
	"github.com/MSMelok/FlixHiringManagement/internal/utilities"
)

// DashboardController handles dashboard related endpoints
type DashboardController struct {
	DB *database.DBinstanceStruct
}

// NewDashboardController creates a new instance of DashboardController with the provided database connection.
func NewDashboardController(db *database.DBinstanceStruct) *DashboardController {
	return &DashboardController{DB: db}
}

type stageCount struct {
	Stage pipeline.Stage `json:"stage"`
	Label string         `json:"label"`
	Count int            `json:"count"`
}

type summaryResponse struct {
	Total    int                     `json:"total"`
	Stages   []stageCount            `json:"stages"`
	Rejected int                     `json:"rejected"`
	Statuses map[pipeline.Status]int `json:"statuses"`
}

// GetSummary returns the pipeline headline numbers. Status counts are
// computed per applicant at request time, the same rule the list view
// uses, so both surfaces always agree.
// @Summary Dashboard summary
// @Tags Dashboard
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} summaryResponse "Pipeline summary"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /dashboard/summary [get]
func (dc *DashboardController) GetSummary(c *gin.Context) {
	var applicants []model.Applicant
	if err := dc.DB.Find(&applicants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve applicants: %s", err.Error()),
		})
		return
	}

	now := time.Now().UTC()
	stageTotals := map[pipeline.Stage]int{}
	statusTotals := map[pipeline.Status]int{}
	rejected := 0

	for _, a := range applicants {
		if a.CurrentStage == pipeline.StageRejected {
			rejected++
		} else {
			stageTotals[a.CurrentStage]++
		}
		statusTotals[pipeline.ComputeStatus(a.Snapshot(), now)]++
	}

	stages := make([]stageCount, 0, len(pipeline.Ordered()))
	for _, s := range pipeline.Ordered() {
		stages = append(stages, stageCount{
			Stage: s,
			Label: pipeline.Label(s),
			Count: stageTotals[s],
		})
	}

	c.JSON(http.StatusOK, summaryResponse{
		Total:    len(applicants),
		Stages:   stages,
		Rejected: rejected,
		Statuses: statusTotals,
	})
}

// GetActivity returns the retained activity feed, highest priority first,
// newest first within a priority.
// @Summary Recent activity feed
// @Tags Dashboard
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.RecentActivity "Feed entries"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /dashboard/activity [get]
func (dc *DashboardController) GetActivity(c *gin.Context) {
	var feed []model.RecentActivity
	err := dc.DB.Order("priority DESC").Order("created_at DESC").
		Limit(model.RecentActivityCap).Find(&feed).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve activity: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, feed)
}
