package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

func TestNewDashboardLayout(t *testing.T) {
	opts := &model.Options{
		States: []model.StateOption{
			{Code: "AK", Name: "Alaska"},
			{Code: "CA", Name: "California"},
		},
		KPIs: []model.KPIOption{
			{Key: types.KPIIncidentRate, Label: "Incident Rate"},
		},
		IncidentTypes: []string{"Injury"},
		MinDate:       "2023-01-01",
		MaxDate:       "2023-12-31",
	}

	layout := model.NewDashboardLayout(opts)
	gt.Equal(t, layout.Title, model.DashboardTitle)
	gt.Equal(t, layout.DefaultTab, types.TabStateAnalysis)
	gt.A(t, layout.Controls).Length(4)
	gt.A(t, layout.Tabs).Length(2)

	t.Run("first state is default", func(t *testing.T) {
		gt.Equal(t, layout.Controls[0].Default, any("AK"))
		gt.A(t, layout.Controls[0].Options).Length(2)
	})

	t.Run("date range defaults to extent", func(t *testing.T) {
		def, ok := layout.Controls[2].Default.(model.DateRangeDefault)
		gt.True(t, ok)
		gt.Equal(t, def.Start, "2023-01-01")
		gt.Equal(t, def.End, "2023-12-31")
	})

	t.Run("each tab holds three charts", func(t *testing.T) {
		for _, tab := range layout.Tabs {
			gt.A(t, tab.Charts).Length(3)
			for _, c := range tab.Charts {
				gt.True(t, c.Kind.IsValid())
			}
		}
	})

	t.Run("KPI selector only on state tab", func(t *testing.T) {
		gt.True(t, layout.KPISelectorVisible(types.TabStateAnalysis))
		gt.False(t, layout.KPISelectorVisible(types.TabMetricAnalysis))
		gt.False(t, layout.KPISelectorVisible(types.Tab("other")))
	})
}

func TestDashboardLayout_SlotID(t *testing.T) {
	layout := model.NewDashboardLayout(&model.Options{})
	gt.Equal(t, layout.SlotID(types.TabStateAnalysis, types.ChartMap), "map-container")
	gt.Equal(t, layout.SlotID(types.TabMetricAnalysis, types.ChartTreemap), "treemap-chart")
	gt.Equal(t, layout.SlotID(types.TabMetricAnalysis, types.ChartRadar), "radar")
}
