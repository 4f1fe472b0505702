// Package export produces full-database snapshots for backup and offline
// analysis, and the matching destructive erase used before a handoff.
package export

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MSMelok/FlixHiringManagement/internal/centraltime"
	"github.com/MSMelok/FlixHiringManagement/internal/database"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
	"github.com/MSMelok/FlixHiringManagement/internal/utilities"
)

// ExportController handles data export endpoints
type ExportController struct {
	DB *database.DBinstanceStruct
}

// NewExportController creates a new instance of ExportController with the provided database connection.
func NewExportController(db *database.DBinstanceStruct) *ExportController {
	return &ExportController{DB: db}
}

type exportedApplicant struct {
	model.Applicant
	Status       pipeline.Status      `json:"status"`
	StageHistory []model.StageHistory `json:"stage_history"`
}

type exportEnvelope struct {
	ExportedAt      time.Time           `json:"exported_at"`
	TotalApplicants int                 `json:"total_applicants"`
	Applicants      []exportedApplicant `json:"applicants"`
}

func (ec *ExportController) loadAll() ([]model.Applicant, map[string][]model.StageHistory, error) {
	var applicants []model.Applicant
	if err := ec.DB.Order("created_at ASC").Find(&applicants).Error; err != nil {
		return nil, nil, err
	}

	var history []model.StageHistory
	if err := ec.DB.Order("created_at ASC").Find(&history).Error; err != nil {
		return nil, nil, err
	}

	byApplicant := make(map[string][]model.StageHistory, len(applicants))
	for _, h := range history {
		key := h.ApplicantID.String()
		byApplicant[key] = append(byApplicant[key], h)
	}
	return applicants, byApplicant, nil
}

// ExportJSON streams the full dataset as one JSON document.
// @Summary Export all data as JSON
// @Tags Export
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} exportEnvelope "Full dataset"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /export/json [get]
func (ec *ExportController) ExportJSON(c *gin.Context) {
	applicants, historyByApplicant, err := ec.loadAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to export data: %s", err.Error()),
		})
		return
	}

	now := time.Now().UTC()
	out := make([]exportedApplicant, 0, len(applicants))
	for _, a := range applicants {
		out = append(out, exportedApplicant{
			Applicant:    a,
			Status:       pipeline.ComputeStatus(a.Snapshot(), now),
			StageHistory: historyByApplicant[a.ID.String()],
		})
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=hr-applicants-%s.json", now.Format("2006-01-02")))
	c.JSON(http.StatusOK, exportEnvelope{
		ExportedAt:      now,
		TotalApplicants: len(out),
		Applicants:      out,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ctOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return centraltime.FormatHuman(*t)
}

// ExportCSV streams a flat spreadsheet of all applicants. Scheduled dates
// are rendered in Central Time, the way the team reads them.
// @Summary Export applicants as CSV
// @Tags Export
// @Produce text/csv
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {string} string "CSV file"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /export/csv [get]
func (ec *ExportController) ExportCSV(c *gin.Context) {
	var applicants []model.Applicant
	if err := ec.DB.Order("created_at ASC").Find(&applicants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to export data: %s", err.Error()),
		})
		return
	}

	now := time.Now().UTC()
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=hr-applicants-%s.csv", now.Format("2006-01-02")))

	w := csv.NewWriter(c.Writer)
	header := []string{
		"Full Name", "Email", "US Name", "Country", "Referred By", "DOB",
		"Current Stage", "Status", "Next Scheduled (CT)",
		"Interview Date (CT)", "Sales Mock Date (CT)", "Slack Mock Date (CT)",
		"Tags", "Notes", "Created At",
	}
	if err := w.Write(header); err != nil {
		return
	}

	for _, a := range applicants {
		snap := a.Snapshot()
		row := []string{
			a.FullName,
			a.Email,
			deref(a.USName),
			deref(a.Country),
			deref(a.ReferredBy),
			deref(a.DOB),
			pipeline.Label(a.CurrentStage),
			string(pipeline.ComputeStatus(snap, now)),
			ctOrEmpty(snap.RelevantDate()),
			ctOrEmpty(a.InterviewDate),
			ctOrEmpty(a.SalesMockDate),
			ctOrEmpty(a.SlackMockDate),
			strings.Join(a.Tags, "; "),
			deref(a.Notes),
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return
		}
	}
	w.Flush()
}

// EraseAll wipes every applicant, history and activity row. Route access
// is restricted to admins; the erase itself is one transaction.
// @Summary Erase all applicant data
// @Tags Export
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.MessageResponse "All data erased"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /export/all [delete]
func (ec *ExportController) EraseAll(c *gin.Context) {
	if err := ec.DB.EraseAll(); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to erase data: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "All applicant data erased"})
}
