package metric

import (
	"sort"

	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// StackedBar returns, for each incident outcome in the state, the share of
// each establishment type. Unstated and invalid establishment types are left
// out. Outcomes and establishment types are sorted; every row sums to 1.
func StackedBar(records []*model.InjuryRecord, state types.StateCode) *model.StackedBar {
	counts := make(map[string]map[string]int)
	typeSet := make(map[string]struct{})

	for _, r := range FilterState(records, state) {
		if r.EstablishmentType == model.EstablishmentNotStated || r.EstablishmentType == model.EstablishmentInvalidEntry {
			continue
		}
		byType, ok := counts[r.IncidentOutcome]
		if !ok {
			byType = make(map[string]int)
			counts[r.IncidentOutcome] = byType
		}
		byType[r.EstablishmentType]++
		typeSet[r.EstablishmentType] = struct{}{}
	}

	result := &model.StackedBar{}
	if len(counts) == 0 {
		return result
	}

	for t := range typeSet {
		result.EstablishmentTypes = append(result.EstablishmentTypes, t)
	}
	sort.Strings(result.EstablishmentTypes)

	outcomes := make([]string, 0, len(counts))
	for o := range counts {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)

	for _, o := range outcomes {
		total := 0
		for _, n := range counts[o] {
			total += n
		}

		shares := make([]float64, len(result.EstablishmentTypes))
		for i, t := range result.EstablishmentTypes {
			shares[i] = float64(counts[o][t]) / float64(total)
		}
		result.Rows = append(result.Rows, model.StackedBarRow{Outcome: o, Shares: shares})
	}
	return result
}
