package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
	"github.com/safetylens/safetytracker/pkg/repository"
	"github.com/safetylens/safetytracker/pkg/usecase"
)

const fixturePath = "../repository/testdata/injuries.csv"

func newDashboard(t *testing.T) *usecase.Dashboard {
	t.Helper()
	ds, err := repository.LoadLocation(context.Background(), fixturePath, "")
	gt.NoError(t, err).Required()
	m, err := model.DefaultMappings()
	gt.NoError(t, err).Required()
	return usecase.NewDashboard(ds, m)
}

func caSelection() *model.Selection {
	return &model.Selection{State: "CA", KPI: types.KPIIncidentRate}
}

func TestDashboard_Options(t *testing.T) {
	d := newDashboard(t)

	opts := d.Options()
	gt.A(t, opts.States).Length(3)
	gt.Equal(t, opts.States[0], model.StateOption{Code: "CA", Name: "California"})
	gt.Equal(t, opts.States[2].Code, types.StateCode("TX"))
	gt.A(t, opts.KPIs).Length(len(types.AllKPIs))
	gt.A(t, opts.IncidentTypes).Length(5)
	gt.Equal(t, opts.MinDate, "2023-01-15")
	gt.Equal(t, opts.MaxDate, "2023-12-31")

	sel := d.DefaultSelection()
	gt.Equal(t, sel.State, types.StateCode("CA"))
	gt.Equal(t, sel.KPI, types.DefaultKPI)
	gt.Equal(t, sel.StartDate, "2023-01-15")

	gt.Equal(t, d.Layout().Title, model.DashboardTitle)
}

func TestDashboard_MenuVisibility(t *testing.T) {
	d := newDashboard(t)
	gt.True(t, d.MenuVisibility(types.TabStateAnalysis))
	gt.False(t, d.MenuVisibility(types.TabMetricAnalysis))
	gt.False(t, d.MenuVisibility(types.Tab("unknown")))
}

func TestDashboard_StateTab(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)

	t.Run("figures for CA", func(t *testing.T) {
		content, err := d.StateTab(ctx, caSelection())
		gt.NoError(t, err).Required()
		gt.Equal(t, content.Tab, types.TabStateAnalysis)
		gt.Equal(t, content.Message, "")
		gt.Equal(t, len(content.Figures), 3)

		radar := content.Figures["radar-chart"]
		gt.V(t, radar).NotNil()
		gt.False(t, radar.IsPlaceholder())
		gt.Equal(t, radar.Data[0].Name, "California")

		m := content.Figures["map-container"]
		gt.V(t, m).NotNil()
		gt.Equal(t, m.Data[0].Locations, []string{"CA", "NY", "TX"})

		splom := content.Figures["splom-container"]
		gt.V(t, splom).NotNil()
		gt.A(t, splom.Data[0].Dimensions).Length(7)
	})

	t.Run("KPI changes map values", func(t *testing.T) {
		sel := caSelection()
		sel.KPI = types.KPIFatalityRate
		content, err := d.StateTab(ctx, sel)
		gt.NoError(t, err).Required()
		gt.S(t, content.Figures["map-container"].Layout.Title.Text).Contains("Fatality Rate")
	})

	t.Run("date range without records shows message", func(t *testing.T) {
		sel := caSelection()
		sel.StartDate, sel.EndDate = "2022-01-01", "2022-12-31"
		content, err := d.StateTab(ctx, sel)
		gt.NoError(t, err).Required()
		gt.True(t, content.IsEmpty())
		gt.Equal(t, content.Message, model.NoDataMessage)
	})

	t.Run("unknown state shows message", func(t *testing.T) {
		content, err := d.StateTab(ctx, &model.Selection{State: "ZZ"})
		gt.NoError(t, err).Required()
		gt.Equal(t, content.Message, model.NoDataMessage)
	})

	t.Run("reversed date range shows message", func(t *testing.T) {
		sel := caSelection()
		sel.StartDate, sel.EndDate = "2023-12-01", "2023-01-01"
		content, err := d.StateTab(ctx, sel)
		gt.NoError(t, err).Required()
		gt.Equal(t, content.Message, model.NoDataMessage)
	})
}

func TestDashboard_MetricTab(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)

	content, err := d.MetricTab(ctx, caSelection())
	gt.NoError(t, err).Required()
	gt.Equal(t, content.Tab, types.TabMetricAnalysis)
	gt.Equal(t, len(content.Figures), 3)

	scatter := content.Figures["scatter-plot"]
	gt.V(t, scatter).NotNil()
	gt.A(t, scatter.Data).Length(3)

	treemap := content.Figures["treemap-chart"]
	gt.V(t, treemap).NotNil()
	gt.Equal(t, treemap.Data[0].Values[0], 6.0)
	gt.S(t, treemap.Layout.Title.Text).Contains("Incident Rate")

	bar := content.Figures["stacked-bar-chart"]
	gt.V(t, bar).NotNil()
	gt.A(t, bar.Data).Length(2)

	t.Run("incident type filter without matches", func(t *testing.T) {
		sel := caSelection()
		sel.IncidentTypes = []string{"Hearing Loss"}
		content, err := d.MetricTab(ctx, sel)
		gt.NoError(t, err).Required()
		gt.Equal(t, len(content.Figures), 3)
		gt.True(t, content.Figures["scatter-plot"].IsPlaceholder())
	})

	t.Run("unknown incident type shows message", func(t *testing.T) {
		sel := caSelection()
		sel.IncidentTypes = []string{"Sunburn"}
		content, err := d.MetricTab(ctx, sel)
		gt.NoError(t, err).Required()
		gt.Equal(t, content.Message, model.NoDataMessage)
	})
}

func TestDashboard_SelectStateFromMap(t *testing.T) {
	d := newDashboard(t)
	click := func(loc string) *model.ClickData {
		return &model.ClickData{Points: []model.ClickPoint{{Location: loc}}}
	}

	gt.Equal(t, d.SelectStateFromMap(click("TX"), "CA"), types.StateCode("TX"))
	gt.Equal(t, d.SelectStateFromMap(click("CA"), "CA"), types.StateCode("CA"))
	gt.Equal(t, d.SelectStateFromMap(click("ZZ"), "CA"), types.StateCode("CA"))
	gt.Equal(t, d.SelectStateFromMap(nil, "CA"), types.StateCode("CA"))
	gt.Equal(t, d.SelectStateFromMap(&model.ClickData{}, "NY"), types.StateCode("NY"))
}

func TestDashboard_SelectKPIFromRadar(t *testing.T) {
	d := newDashboard(t)

	kpi, ok := d.SelectKPIFromRadar(&model.ClickData{Points: []model.ClickPoint{{Theta: "Fatality Rate"}}})
	gt.True(t, ok)
	gt.Equal(t, kpi, types.KPIFatalityRate)

	_, ok = d.SelectKPIFromRadar(&model.ClickData{Points: []model.ClickPoint{{Theta: "California"}}})
	gt.False(t, ok)

	_, ok = d.SelectKPIFromRadar(nil)
	gt.False(t, ok)
}

func TestDashboard_ScatterZoom(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)

	t.Run("autosize is ignored", func(t *testing.T) {
		update, err := d.ScatterZoom(ctx, caSelection(), model.Relayout{"autosize": true})
		gt.NoError(t, err)
		gt.V(t, update).Nil()
	})

	t.Run("empty relayout is ignored", func(t *testing.T) {
		update, err := d.ScatterZoom(ctx, caSelection(), model.Relayout{})
		gt.NoError(t, err)
		gt.V(t, update).Nil()
	})

	t.Run("shift start window", func(t *testing.T) {
		update, err := d.ScatterZoom(ctx, caSelection(), model.Relayout{
			"xaxis.range[0]": 7.0,
			"xaxis.range[1]": 8.0,
		})
		gt.NoError(t, err).Required()
		gt.V(t, update).NotNil()
		gt.V(t, update.Window).NotNil()
		gt.Equal(t, *update.Window.StartMin, 7.0)
		gt.Equal(t, len(update.Figures), 2)

		// C001, C002, C004 and C007 started between 07:00 and 08:00
		treemap := update.Figures["treemap-chart"]
		gt.Equal(t, treemap.Data[0].Values[0], 4.0)

		bar := update.Figures["stacked-bar-chart"]
		gt.A(t, bar.Data).Length(2)
		gt.Equal(t, bar.Data[0].Y, any([]string{"Days away from work", "Job transfer or restriction"}))
	})
}

func TestDashboard_BarClick(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)
	click := &model.ClickData{Points: []model.ClickPoint{{Y: "Death"}}}

	t.Run("select outcome", func(t *testing.T) {
		update, err := d.BarClick(ctx, caSelection(), click, "")
		gt.NoError(t, err).Required()
		gt.V(t, update.Outcome).NotNil()
		gt.Equal(t, *update.Outcome, "Death")

		scatter := update.Figures["scatter-plot"]
		gt.A(t, scatter.Data).Length(1)
		gt.Equal(t, scatter.Data[0].X, any([]float64{6}))
		gt.V(t, update.Figures["treemap-chart"]).NotNil()
	})

	t.Run("same outcome twice resets", func(t *testing.T) {
		update, err := d.BarClick(ctx, caSelection(), click, "Death")
		gt.NoError(t, err).Required()
		gt.Equal(t, *update.Outcome, "")
		gt.A(t, update.Figures["scatter-plot"].Data).Length(3)
	})

	t.Run("no points", func(t *testing.T) {
		update, err := d.BarClick(ctx, caSelection(), &model.ClickData{}, "Death")
		gt.NoError(t, err)
		gt.V(t, update).Nil()
	})
}

func TestDashboard_TreemapClick(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)

	t.Run("major group", func(t *testing.T) {
		update, err := d.TreemapClick(ctx, caSelection(), &model.ClickData{Points: []model.ClickPoint{{
			Label:  "Construction and Extraction Occupations",
			Parent: model.RootOccupationLabel,
		}}})
		gt.NoError(t, err).Required()
		gt.Equal(t, len(update.Figures), 2)

		// the Not Stated establishment is left out of the bar chart
		bar := update.Figures["stacked-bar-chart"]
		gt.A(t, bar.Data).Length(1)
		gt.Equal(t, bar.Data[0].Name, "Private industry")

		scatter := update.Figures["scatter-plot"]
		gt.Equal(t, scatter.Data[0].Text, []string{"Residential Building Construction"})
	})

	t.Run("root keeps everything", func(t *testing.T) {
		update, err := d.TreemapClick(ctx, caSelection(), &model.ClickData{Points: []model.ClickPoint{{
			Label: model.RootOccupationLabel,
		}}})
		gt.NoError(t, err).Required()
		gt.A(t, update.Figures["scatter-plot"].Data).Length(3)
	})

	t.Run("no points", func(t *testing.T) {
		update, err := d.TreemapClick(ctx, caSelection(), nil)
		gt.NoError(t, err)
		gt.V(t, update).Nil()
	})
}

func TestDashboard_Aggregate(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)

	rows, err := d.Aggregate(ctx, caSelection())
	gt.NoError(t, err).Required()
	gt.A(t, rows).Length(3)

	rows, err = d.Aggregate(ctx, &model.Selection{})
	gt.NoError(t, err).Required()
	gt.A(t, rows).Length(3)
	gt.Equal(t, rows[0].State, types.StateCode("CA"))

	t.Run("selections without records give empty result", func(t *testing.T) {
		for _, sel := range []*model.Selection{
			{State: "WY"},
			{State: "CA", StartDate: "2023-01-01", EndDate: "2023-01-02"},
		} {
			rows, err := d.Aggregate(ctx, sel)
			gt.NoError(t, err)
			gt.V(t, rows).NotNil()
			gt.A(t, rows).Length(0)
		}
	})

	t.Run("invalid selections give empty result", func(t *testing.T) {
		for _, sel := range []*model.Selection{
			{State: "ZZ"},
			{KPI: "nope"},
			{IncidentTypes: []string{"Sunburn"}},
			{StartDate: "yesterday"},
		} {
			rows, err := d.Aggregate(ctx, sel)
			gt.NoError(t, err)
			gt.V(t, rows).NotNil()
			gt.A(t, rows).Length(0)
		}
	})
}

func TestDashboard_Figure(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)

	fig, err := d.Figure(ctx, types.ChartMap, caSelection())
	gt.NoError(t, err).Required()
	gt.Equal(t, fig.Data[0].Type, "choropleth")

	sel := caSelection()
	sel.Outcome = "Death"
	fig, err = d.Figure(ctx, types.ChartScatter, sel)
	gt.NoError(t, err).Required()
	gt.A(t, fig.Data).Length(1)

	_, err = d.Figure(ctx, types.ChartKind("pie"), caSelection())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, model.ErrTagValidation))

	stats, err := d.StateStats(ctx, caSelection())
	gt.NoError(t, err).Required()
	gt.A(t, stats).Length(3)
}

func TestDashboard_Cache(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)

	gt.NoError(t, d.Warmup(ctx))
	gt.Equal(t, d.CacheLen(), 1)

	// state and KPI are not part of the filter key
	sel := d.DefaultSelection()
	sel.State, sel.KPI = "TX", types.KPIDangerScore
	_, err := d.StateTab(ctx, sel)
	gt.NoError(t, err)
	gt.Equal(t, d.CacheLen(), 1)

	sel.IncidentTypes = []string{"Injury"}
	_, err = d.MetricTab(ctx, sel)
	gt.NoError(t, err)
	gt.Equal(t, d.CacheLen(), 2)

	t.Run("concurrent callbacks", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sel := caSelection()
				if i%2 == 0 {
					sel.IncidentTypes = []string{"Injury", "Poisoning"}
				}
				if _, err := d.StateTab(ctx, sel); err != nil {
					t.Error(err)
				}
				if _, err := d.MetricTab(ctx, sel); err != nil {
					t.Error(err)
				}
			}()
		}
		wg.Wait()
	})
}
