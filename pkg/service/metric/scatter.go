package metric

import (
	"sort"
	"time"

	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

const clockLayout = "15:04"

type industryAccum struct {
	cases           int
	startSeconds    float64
	incidentSeconds float64
	establishments  map[string]int
}

// Scatter summarises the state's cases per industry: case count, mean shift
// start, mean incident time and the most frequent establishment type.
func Scatter(records []*model.InjuryRecord, state types.StateCode) []model.ScatterRow {
	accums := make(map[string]*industryAccum)
	for _, r := range FilterState(records, state) {
		a, ok := accums[r.Industry]
		if !ok {
			a = &industryAccum{establishments: make(map[string]int)}
			accums[r.Industry] = a
		}
		a.cases++
		a.startSeconds += secondsOfDay(r.TimeStartedWork)
		a.incidentSeconds += secondsOfDay(r.TimeOfIncident)
		a.establishments[r.EstablishmentType]++
	}
	if len(accums) == 0 {
		return nil
	}

	rows := make([]model.ScatterRow, 0, len(accums))
	for industry, a := range accums {
		meanStart := a.startSeconds / float64(a.cases)
		meanIncident := a.incidentSeconds / float64(a.cases)
		rows = append(rows, model.ScatterRow{
			Industry:          industry,
			Cases:             a.cases,
			MeanStartHour:     meanStart / 3600,
			MeanIncidentHour:  meanIncident / 3600,
			StartedWork:       formatClock(meanStart),
			IncidentTime:      formatClock(meanIncident),
			EstablishmentType: mode(a.establishments),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Industry < rows[j].Industry })
	return rows
}

func secondsOfDay(t time.Time) float64 {
	return float64(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func formatClock(seconds float64) string {
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(seconds * float64(time.Second))).
		Format(clockLayout)
}

// mode returns the most frequent value, breaking ties by the smallest value
func mode(counts map[string]int) string {
	var best string
	bestCount := -1
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best
}
