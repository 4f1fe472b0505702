package applicant

import (
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/pipeline"
)

// listFilters are the query parameters of the applicant list endpoint.
// Status filtering works on the computed status, so it cannot be pushed
// into SQL; the list is filtered in memory after loading.
type listFilters struct {
	Stage      string
	Status     string
	ReferredBy string
	Search     string
	Start      string
	End        string
	Sort       string
}

func filtersFromQuery(c *gin.Context) listFilters {
	return listFilters{
		Stage:      c.Query("stage"),
		Status:     c.Query("status"),
		ReferredBy: c.Query("referred_by"),
		Search:     strings.TrimSpace(c.Query("search")),
		Start:      c.Query("start"),
		End:        c.Query("end"),
		Sort:       c.DefaultQuery("sort", "updated-desc"),
	}
}

func matchesSearch(a model.Applicant, term string) bool {
	term = strings.ToLower(term)
	fields := []string{a.FullName, a.Email}
	if a.USName != nil {
		fields = append(fields, *a.USName)
	}
	if a.Country != nil {
		fields = append(fields, *a.Country)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func matchesCreatedRange(a model.Applicant, start, end string) bool {
	created := a.CreatedAt.Format("2006-01-02")
	if start != "" && created < start {
		return false
	}
	if end != "" && created > end {
		return false
	}
	return true
}

func applyFilters(applicants []model.Applicant, f listFilters, now time.Time) []model.Applicant {
	out := make([]model.Applicant, 0, len(applicants))
	for _, a := range applicants {
		if f.Stage != "" && string(a.CurrentStage) != f.Stage {
			continue
		}
		if f.ReferredBy != "" && (a.ReferredBy == nil || *a.ReferredBy != f.ReferredBy) {
			continue
		}
		if f.Status != "" && string(pipeline.ComputeStatus(a.Snapshot(), now)) != f.Status {
			continue
		}
		if f.Search != "" && !matchesSearch(a, f.Search) {
			continue
		}
		if !matchesCreatedRange(a, f.Start, f.End) {
			continue
		}
		out = append(out, a)
	}

	sortApplicants(out, f.Sort, now)
	return out
}

// sortApplicants orders the list in place. Applicants without a birth
// date (age 0) sort last under both age orders.
func sortApplicants(list []model.Applicant, order string, now time.Time) {
	byName := func(i, j int) bool {
		return strings.ToLower(list[i].FullName) < strings.ToLower(list[j].FullName)
	}
	agePair := func(i, j int) (ai, aj int, both bool) {
		ai, aj = list[i].Age(now), list[j].Age(now)
		return ai, aj, ai > 0 && aj > 0
	}

	switch order {
	case "name-asc":
		sort.SliceStable(list, byName)
	case "name-desc":
		sort.SliceStable(list, func(i, j int) bool { return byName(j, i) })
	case "age-asc":
		sort.SliceStable(list, func(i, j int) bool {
			ai, aj, both := agePair(i, j)
			if !both {
				return ai > 0 && aj == 0
			}
			return ai < aj
		})
	case "age-desc":
		sort.SliceStable(list, func(i, j int) bool {
			ai, aj, both := agePair(i, j)
			if !both {
				return ai > 0 && aj == 0
			}
			return ai > aj
		})
	case "created-asc":
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	case "created-desc":
		sort.SliceStable(list, func(i, j int) bool { return list[j].CreatedAt.Before(list[i].CreatedAt) })
	default: // updated-desc
		sort.SliceStable(list, func(i, j int) bool { return list[j].UpdatedAt.Before(list[i].UpdatedAt) })
	}
}
