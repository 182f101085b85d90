package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
	"github.com/safetylens/safetytracker/pkg/service/chart"
	"github.com/safetylens/safetytracker/pkg/service/metric"
	"github.com/safetylens/safetytracker/pkg/utils/apperr"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultCacheSize is the number of filtered record sets kept in memory
	DefaultCacheSize = 64
	// DefaultCacheTTL is how long a filtered record set stays valid
	DefaultCacheTTL = 10 * time.Minute
)

// Dashboard answers the UI callbacks of the dashboard on top of one loaded
// dataset. It is safe for concurrent use.
type Dashboard struct {
	dataset   interfaces.Dataset
	mappings  *model.Mappings
	charts    *chart.Builder
	options   *model.Options
	layout    *model.DashboardLayout
	reference *model.KPIReference
	cache     *expirable.LRU[string, []*model.InjuryRecord]
}

type dashboardConfig struct {
	cacheSize int
	cacheTTL  time.Duration
}

// DashboardOption configures a Dashboard
type DashboardOption func(*dashboardConfig)

// WithCache sets the size and TTL of the filter cache
func WithCache(size int, ttl time.Duration) DashboardOption {
	return func(c *dashboardConfig) {
		if size > 0 {
			c.cacheSize = size
		}
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// NewDashboard creates a Dashboard. The KPI reference used to scale the
// radar chart is computed once here over the whole dataset.
func NewDashboard(ds interfaces.Dataset, mappings *model.Mappings, opts ...DashboardOption) *Dashboard {
	cfg := dashboardConfig{cacheSize: DefaultCacheSize, cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&cfg)
	}

	options := buildOptions(ds, mappings)
	return &Dashboard{
		dataset:   ds,
		mappings:  mappings,
		charts:    chart.New(mappings),
		options:   options,
		layout:    model.NewDashboardLayout(options),
		reference: metric.Reference(metric.SafetyScores(ds.Records(), nil)),
		cache:     expirable.NewLRU[string, []*model.InjuryRecord](cfg.cacheSize, nil, cfg.cacheTTL),
	}
}

func buildOptions(ds interfaces.Dataset, m *model.Mappings) *model.Options {
	opts := &model.Options{
		KPIs:          m.KPIs,
		IncidentTypes: ds.IncidentTypes(),
	}
	for _, code := range ds.States() {
		if !m.IsKnownState(code) {
			continue
		}
		opts.States = append(opts.States, model.StateOption{Code: code, Name: m.StateName(code)})
	}

	minDate, maxDate := ds.DateExtent()
	if !minDate.IsZero() {
		opts.MinDate = minDate.Format(model.DateLayout)
	}
	if !maxDate.IsZero() {
		opts.MaxDate = maxDate.Format(model.DateLayout)
	}
	return opts
}

// Dataset returns the dataset the dashboard serves
func (d *Dashboard) Dataset() interfaces.Dataset {
	return d.dataset
}

// Options returns the values offered by the dropdown controls
func (d *Dashboard) Options() *model.Options {
	return d.options
}

// Layout returns the static dashboard layout
func (d *Dashboard) Layout() *model.DashboardLayout {
	return d.layout
}

// DefaultSelection is the selection the UI starts with: first state, default
// KPI and the full date extent
func (d *Dashboard) DefaultSelection() *model.Selection {
	sel := &model.Selection{
		KPI:       types.DefaultKPI,
		StartDate: d.options.MinDate,
		EndDate:   d.options.MaxDate,
	}
	if len(d.options.States) > 0 {
		sel.State = d.options.States[0].Code
	}
	return sel
}

// MenuVisibility reports whether the KPI selector is shown on a tab
func (d *Dashboard) MenuVisibility(tab types.Tab) bool {
	return d.layout.KPISelectorVisible(tab)
}

// records returns the records matching the date range and incident types of
// the selection. Invalid selections are logged and match nothing.
func (d *Dashboard) records(ctx context.Context, sel *model.Selection) ([]*model.InjuryRecord, error) {
	records, err := d.filter(sel)
	if err != nil {
		if goerr.HasTag(err, model.ErrTagValidation) {
			apperr.Handle(ctx, err)
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to filter records")
	}
	return records, nil
}

func (d *Dashboard) filter(sel *model.Selection) ([]*model.InjuryRecord, error) {
	if err := sel.Validate(d.mappings, d.dataset.IncidentTypes()); err != nil {
		return nil, err
	}

	key := sel.BaseFilterKey()
	if records, ok := d.cache.Get(key); ok {
		return records, nil
	}

	records, err := metric.Filter(d.dataset, sel)
	if err != nil {
		return nil, err
	}
	d.cache.Add(key, records)
	return records, nil
}

// panel computes the payload of one chart
type panel struct {
	kind    types.ChartKind
	payload func() (any, error)
}

// render builds the figures of panels concurrently and keys them by the
// chart slot IDs of tab
func (d *Dashboard) render(ctx context.Context, tab types.Tab, opts chart.Options, panels ...panel) (map[string]*model.Figure, error) {
	figures := make([]*model.Figure, len(panels))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, p := range panels {
		eg.Go(func() error {
			payload, err := p.payload()
			if err != nil {
				return goerr.Wrap(err, "failed to aggregate chart data", goerr.V("kind", p.kind))
			}
			fig, err := d.charts.Build(p.kind, payload, opts)
			if err != nil {
				apperr.Handle(egCtx, err)
			}
			figures[i] = fig
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]*model.Figure, len(panels))
	for i, p := range panels {
		result[d.layout.SlotID(tab, p.kind)] = figures[i]
	}
	return result, nil
}

func scatterPanel(records []*model.InjuryRecord, state types.StateCode) panel {
	return panel{kind: types.ChartScatter, payload: func() (any, error) {
		return metric.Scatter(records, state), nil
	}}
}

func treemapPanel(records []*model.InjuryRecord, state types.StateCode, kpi types.KPI) panel {
	return panel{kind: types.ChartTreemap, payload: func() (any, error) {
		return metric.Treemap(records, state, kpi)
	}}
}

func stackedBarPanel(records []*model.InjuryRecord, state types.StateCode) panel {
	return panel{kind: types.ChartStackedBar, payload: func() (any, error) {
		return metric.StackedBar(records, state), nil
	}}
}

func radarPanel(records []*model.InjuryRecord, state types.StateCode, ref *model.KPIReference) panel {
	return panel{kind: types.ChartRadar, payload: func() (any, error) {
		return metric.Radar(records, state, ref), nil
	}}
}

// metricOptions are the chart options of the metric tab. The KPI selector
// is hidden there, so its treemap always shows the incident rate.
func metricOptions(sel *model.Selection) chart.Options {
	return chart.Options{State: sel.State, KPI: types.KPIIncidentRate}
}

func stateOptions(sel *model.Selection) chart.Options {
	return chart.Options{State: sel.State, KPI: sel.KPIOrDefault()}
}

// StateTab builds the radar, map and scatter matrix of the state analysis
// tab. When the filters match nothing the tab carries a message instead.
func (d *Dashboard) StateTab(ctx context.Context, sel *model.Selection) (*model.TabContent, error) {
	content := &model.TabContent{Tab: types.TabStateAnalysis}

	records, err := d.records(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		content.Message = model.NoDataMessage
		return content, nil
	}

	kpi := sel.KPIOrDefault()
	stateData := sync.OnceValues(func() ([]model.StateStats, error) {
		return metric.StateData(records, kpi)
	})
	statePanel := func(kind types.ChartKind) panel {
		return panel{kind: kind, payload: func() (any, error) { return stateData() }}
	}

	figures, err := d.render(ctx, types.TabStateAnalysis, stateOptions(sel),
		radarPanel(records, sel.State, d.reference),
		statePanel(types.ChartMap),
		statePanel(types.ChartSplom),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build state tab", goerr.V("selection", sel.Key()))
	}
	content.Figures = figures
	return content, nil
}

// MetricTab builds the scatter plot, treemap and stacked bar chart of the
// metric analysis tab
func (d *Dashboard) MetricTab(ctx context.Context, sel *model.Selection) (*model.TabContent, error) {
	content := &model.TabContent{Tab: types.TabMetricAnalysis}

	records, err := d.records(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		content.Message = model.NoDataMessage
		return content, nil
	}

	figures, err := d.render(ctx, types.TabMetricAnalysis, metricOptions(sel),
		scatterPanel(records, sel.State),
		treemapPanel(records, sel.State, types.KPIIncidentRate),
		stackedBarPanel(records, sel.State),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build metric tab", goerr.V("selection", sel.Key()))
	}
	content.Figures = figures
	return content, nil
}

// SelectStateFromMap returns the state clicked on the map, or current if
// the click carries no known state
func (d *Dashboard) SelectStateFromMap(click *model.ClickData, current types.StateCode) types.StateCode {
	p := click.First()
	if p == nil || p.Location == "" {
		return current
	}
	state := types.StateCode(p.Location)
	if state == current || !d.mappings.IsKnownState(state) {
		return current
	}
	return state
}

// SelectKPIFromRadar resolves the spoke label clicked on the radar chart to
// a KPI. It returns false if the click does not change the KPI selection.
func (d *Dashboard) SelectKPIFromRadar(click *model.ClickData) (types.KPI, bool) {
	p := click.First()
	if p == nil || p.Theta == "" {
		return "", false
	}
	return d.mappings.KPIFromLabel(p.Theta)
}

// ScatterZoom rebuilds the treemap and stacked bar chart for the work
// window zoomed on the scatter plot. Autosize and empty relayout events
// return a nil update.
func (d *Dashboard) ScatterZoom(ctx context.Context, sel *model.Selection, relayout model.Relayout) (*model.ChartUpdate, error) {
	if !relayout.IsActionable() {
		return nil, nil
	}

	records, err := d.records(ctx, sel)
	if err != nil {
		return nil, err
	}
	window := relayout.Window()
	records = metric.FilterWindow(records, window)

	figures, err := d.render(ctx, types.TabMetricAnalysis, metricOptions(sel),
		treemapPanel(records, sel.State, types.KPIIncidentRate),
		stackedBarPanel(records, sel.State),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to apply scatter zoom", goerr.V("selection", sel.Key()))
	}

	ctxlog.From(ctx).Debug("Scatter zoom applied", "state", sel.State, "records", len(records))
	return &model.ChartUpdate{Figures: figures, Window: window}, nil
}

// BarClick filters by the incident outcome clicked on the stacked bar chart
// and rebuilds the treemap and scatter plot. Clicking the previously
// selected outcome again clears the filter. A click without points returns
// a nil update.
func (d *Dashboard) BarClick(ctx context.Context, sel *model.Selection, click *model.ClickData, previous string) (*model.ChartUpdate, error) {
	p := click.First()
	if p == nil {
		return nil, nil
	}

	outcome := p.YString()
	if outcome == previous {
		outcome = ""
	}

	records, err := d.records(ctx, sel)
	if err != nil {
		return nil, err
	}
	records = metric.FilterOutcome(records, outcome)

	figures, err := d.render(ctx, types.TabMetricAnalysis, metricOptions(sel),
		treemapPanel(records, sel.State, types.KPIIncidentRate),
		scatterPanel(records, sel.State),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to apply bar click", goerr.V("outcome", outcome))
	}
	return &model.ChartUpdate{Figures: figures, Outcome: &outcome}, nil
}

// TreemapClick filters by the occupation node clicked on the treemap and
// rebuilds the stacked bar chart and scatter plot. Clicking the root node
// shows all occupations again.
func (d *Dashboard) TreemapClick(ctx context.Context, sel *model.Selection, click *model.ClickData) (*model.ChartUpdate, error) {
	p := click.First()
	if p == nil {
		return nil, nil
	}

	records, err := d.records(ctx, sel)
	if err != nil {
		return nil, err
	}
	records = metric.FilterOccupation(records, p.Parent, p.Label)

	figures, err := d.render(ctx, types.TabMetricAnalysis, metricOptions(sel),
		stackedBarPanel(records, sel.State),
		scatterPanel(records, sel.State),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to apply treemap click",
			goerr.V("parent", p.Parent),
			goerr.V("label", p.Label))
	}
	return &model.ChartUpdate{Figures: figures}, nil
}

// Aggregate returns the selected KPI per industry of the selected state, or
// per state when no state is selected. Invalid selections give an empty
// result.
func (d *Dashboard) Aggregate(ctx context.Context, sel *model.Selection) ([]model.KPIRow, error) {
	if err := sel.Validate(d.mappings, d.dataset.IncidentTypes()); err != nil {
		apperr.Handle(ctx, err)
		return []model.KPIRow{}, nil
	}

	rows, err := metric.FilterAndAggregate(d.dataset, sel)
	if err != nil {
		if goerr.HasTag(err, model.ErrTagValidation) {
			apperr.Handle(ctx, err)
			return []model.KPIRow{}, nil
		}
		return nil, goerr.Wrap(err, "failed to aggregate", goerr.V("selection", sel.Key()))
	}
	if rows == nil {
		rows = []model.KPIRow{}
	}
	return rows, nil
}

// StateStats returns the per-state summary of the selection
func (d *Dashboard) StateStats(ctx context.Context, sel *model.Selection) ([]model.StateStats, error) {
	records, err := d.records(ctx, sel)
	if err != nil {
		return nil, err
	}
	stats, err := metric.StateData(records, sel.KPIOrDefault())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to summarise states")
	}
	return stats, nil
}

// Figure builds a single chart for the selection, including its drill-down
// fields. It backs the image export.
func (d *Dashboard) Figure(ctx context.Context, kind types.ChartKind, sel *model.Selection) (*model.Figure, error) {
	records, err := d.records(ctx, sel)
	if err != nil {
		return nil, err
	}
	records = metric.Drill(records, sel)

	var (
		tab  = types.TabMetricAnalysis
		opts = metricOptions(sel)
		p    panel
	)
	switch kind {
	case types.ChartRadar:
		tab, opts = types.TabStateAnalysis, stateOptions(sel)
		p = radarPanel(records, sel.State, d.reference)
	case types.ChartMap, types.ChartSplom:
		tab, opts = types.TabStateAnalysis, stateOptions(sel)
		kpi := sel.KPIOrDefault()
		p = panel{kind: kind, payload: func() (any, error) { return metric.StateData(records, kpi) }}
	case types.ChartTreemap:
		p = treemapPanel(records, sel.State, types.KPIIncidentRate)
	case types.ChartScatter:
		p = scatterPanel(records, sel.State)
	case types.ChartStackedBar:
		p = stackedBarPanel(records, sel.State)
	default:
		return nil, goerr.New("unknown chart kind", goerr.V("kind", kind), goerr.T(model.ErrTagValidation))
	}

	figures, err := d.render(ctx, tab, opts, p)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build figure", goerr.V("kind", kind))
	}
	return figures[d.layout.SlotID(tab, kind)], nil
}

// Warmup builds both tabs for the default selection so that the first page
// load is served from the filter cache
func (d *Dashboard) Warmup(ctx context.Context) error {
	sel := d.DefaultSelection()
	if _, err := d.StateTab(ctx, sel); err != nil {
		return goerr.Wrap(err, "failed to warm up state tab")
	}
	if _, err := d.MetricTab(ctx, sel); err != nil {
		return goerr.Wrap(err, "failed to warm up metric tab")
	}
	ctxlog.From(ctx).Info("Dashboard warmed up",
		"state", sel.State,
		"cached", d.cache.Len())
	return nil
}
