package usecase

import (
	"context"

	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

// DashboardUseCase defines the dashboard callbacks served over HTTP
type DashboardUseCase interface {
	// Dataset returns the loaded dataset
	Dataset() interfaces.Dataset

	// Options returns the values offered by the dropdown controls
	Options() *model.Options

	// Layout returns the static dashboard layout
	Layout() *model.DashboardLayout

	// MenuVisibility reports whether the KPI selector is shown on a tab
	MenuVisibility(tab types.Tab) bool

	// StateTab builds the figures of the state analysis tab
	StateTab(ctx context.Context, sel *model.Selection) (*model.TabContent, error)

	// MetricTab builds the figures of the metric analysis tab
	MetricTab(ctx context.Context, sel *model.Selection) (*model.TabContent, error)

	// SelectStateFromMap resolves a map click to the selected state
	SelectStateFromMap(click *model.ClickData, current types.StateCode) types.StateCode

	// SelectKPIFromRadar resolves a radar click to a KPI
	SelectKPIFromRadar(click *model.ClickData) (types.KPI, bool)

	// ScatterZoom applies a scatter plot zoom to the dependent charts
	ScatterZoom(ctx context.Context, sel *model.Selection, relayout model.Relayout) (*model.ChartUpdate, error)

	// BarClick applies a stacked bar click to the dependent charts
	BarClick(ctx context.Context, sel *model.Selection, click *model.ClickData, previous string) (*model.ChartUpdate, error)

	// TreemapClick applies a treemap click to the dependent charts
	TreemapClick(ctx context.Context, sel *model.Selection, click *model.ClickData) (*model.ChartUpdate, error)

	// Aggregate returns the selected KPI per group
	Aggregate(ctx context.Context, sel *model.Selection) ([]model.KPIRow, error)

	// StateStats returns the per-state summary of a selection
	StateStats(ctx context.Context, sel *model.Selection) ([]model.StateStats, error)

	// Figure builds one chart for a selection
	Figure(ctx context.Context, kind types.ChartKind, sel *model.Selection) (*model.Figure, error)
}

var _ DashboardUseCase = (*Dashboard)(nil)
