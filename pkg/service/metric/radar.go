package metric

import (
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// Radar returns one point per KPI for the state. Values are scaled with the
// reference computed on the full dataset, so the same value lands on the
// same radius whatever the filters. The mean is taken across all states in
// records. A state with no records yields nil.
func Radar(records []*model.InjuryRecord, state types.StateCode, ref *model.KPIReference) []model.RadarPoint {
	scores := SafetyScores(records, nil)

	var target *model.SafetyScore
	for i := range scores {
		if scores[i].State == state {
			target = &scores[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	means := Reference(scores).Mean

	points := make([]model.RadarPoint, 0, len(types.AllKPIs))
	for _, k := range types.AllKPIs {
		v := target.Get(k)
		points = append(points, model.RadarPoint{
			KPI:             k,
			Value:           v,
			ScaledValue:     ref.Scale(k, v),
			MeanValue:       means[k],
			ScaledMeanValue: ref.Scale(k, means[k]),
		})
	}
	return points
}
