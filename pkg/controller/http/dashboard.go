package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
	"github.com/safetylens/safetytracker/pkg/usecase"
	"github.com/safetylens/safetytracker/pkg/utils/apperr"
)

// maxBodySize limits JSON request bodies
const maxBodySize = 1 << 20

// DashboardHandler serves the dashboard JSON API
type DashboardHandler struct {
	dashboardUC usecase.DashboardUseCase
	baseURL     string
}

// NewDashboardHandler creates a new dashboard handler. baseURL prefixes the
// download links; when empty they are derived from each request.
func NewDashboardHandler(dashboardUC usecase.DashboardUseCase, baseURL string) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC, baseURL: baseURL}
}

// ExportLinks are the download URLs offered next to the charts
type ExportLinks struct {
	States string                     `json:"states"`
	Charts map[types.ChartKind]string `json:"charts"`
}

// LayoutResponse is the dashboard layout plus its download links
type LayoutResponse struct {
	*model.DashboardLayout
	Exports ExportLinks `json:"exports"`
}

// MapClickRequest is the body of a map click event
type MapClickRequest struct {
	Click   *model.ClickData `json:"click"`
	Current types.StateCode  `json:"current"`
}

// RadarClickRequest is the body of a radar click event
type RadarClickRequest struct {
	Click *model.ClickData `json:"click"`
}

// ScatterRelayoutRequest is the body of a scatter plot relayout event
type ScatterRelayoutRequest struct {
	Selection model.Selection `json:"selection"`
	Relayout  model.Relayout  `json:"relayout"`
}

// BarClickRequest is the body of a stacked bar click event
type BarClickRequest struct {
	Selection       model.Selection  `json:"selection"`
	Click           *model.ClickData `json:"click"`
	PreviousOutcome string           `json:"previous_outcome"`
}

// TreemapClickRequest is the body of a treemap click event
type TreemapClickRequest struct {
	Selection model.Selection  `json:"selection"`
	Click     *model.ClickData `json:"click"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		ctxlog.From(r.Context()).Debug("Malformed request body", "error", err)
		writeError(w, goerr.Wrap(err, "malformed request body"), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Handle(r.Context(), err)
	writeError(w, err, http.StatusInternalServerError)
}

// HandleHealth reports liveness and the loaded dataset
func (h *DashboardHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ds := h.dashboardUC.Dataset()
	writeJSON(w, r, map[string]any{
		"status":     "healthy",
		"service":    "safetytracker",
		"dataset_id": ds.ID(),
		"records":    ds.Len(),
	})
}

// HandleOptions returns the dropdown values
func (h *DashboardHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.dashboardUC.Options())
}

// HandleLayout returns the dashboard layout
func (h *DashboardHandler) HandleLayout(w http.ResponseWriter, r *http.Request) {
	layout := h.dashboardUC.Layout()
	base := PublicBaseURL(r, h.baseURL) + "/api/export/"

	links := ExportLinks{
		States: base + "states.xlsx",
		Charts: make(map[types.ChartKind]string),
	}
	for _, tab := range layout.Tabs {
		for _, c := range tab.Charts {
			links.Charts[c.Kind] = base + c.Kind.String() + ".png"
		}
	}

	writeJSON(w, r, LayoutResponse{DashboardLayout: layout, Exports: links})
}

// HandleMenu reports whether the KPI selector is shown on a tab
func (h *DashboardHandler) HandleMenu(w http.ResponseWriter, r *http.Request) {
	tab := types.Tab(chi.URLParam(r, "tab"))
	if !tab.IsValid() {
		writeError(w, goerr.New("unknown tab", goerr.V("tab", tab)), http.StatusNotFound)
		return
	}
	writeJSON(w, r, map[string]any{
		"tab":                  tab,
		"kpi_selector_visible": h.dashboardUC.MenuVisibility(tab),
	})
}

// HandleStateTab builds the state analysis tab
func (h *DashboardHandler) HandleStateTab(w http.ResponseWriter, r *http.Request) {
	var sel model.Selection
	if !decodeBody(w, r, &sel) {
		return
	}
	content, err := h.dashboardUC.StateTab(r.Context(), &sel)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, content)
}

// HandleMetricTab builds the metric analysis tab
func (h *DashboardHandler) HandleMetricTab(w http.ResponseWriter, r *http.Request) {
	var sel model.Selection
	if !decodeBody(w, r, &sel) {
		return
	}
	content, err := h.dashboardUC.MetricTab(r.Context(), &sel)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, content)
}

// HandleAggregate returns the selected KPI per group
func (h *DashboardHandler) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	var sel model.Selection
	if !decodeBody(w, r, &sel) {
		return
	}
	rows, err := h.dashboardUC.Aggregate(r.Context(), &sel)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, r, map[string]any{"rows": rows})
}

// HandleMapClick resolves the state clicked on the map
func (h *DashboardHandler) HandleMapClick(w http.ResponseWriter, r *http.Request) {
	var req MapClickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	state := h.dashboardUC.SelectStateFromMap(req.Click, req.Current)
	writeJSON(w, r, map[string]any{"state": state})
}

// HandleRadarClick resolves the KPI clicked on the radar chart. It answers
// 204 when the click does not change the KPI.
func (h *DashboardHandler) HandleRadarClick(w http.ResponseWriter, r *http.Request) {
	var req RadarClickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kpi, ok := h.dashboardUC.SelectKPIFromRadar(req.Click)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, map[string]any{"kpi": kpi})
}

// writeUpdate writes a chart update, or 204 if there is nothing to update
func (h *DashboardHandler) writeUpdate(w http.ResponseWriter, r *http.Request, update *model.ChartUpdate, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if update == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, update)
}

// HandleScatterRelayout applies a scatter plot zoom
func (h *DashboardHandler) HandleScatterRelayout(w http.ResponseWriter, r *http.Request) {
	var req ScatterRelayoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	update, err := h.dashboardUC.ScatterZoom(r.Context(), &req.Selection, req.Relayout)
	h.writeUpdate(w, r, update, err)
}

// HandleBarClick applies a stacked bar click
func (h *DashboardHandler) HandleBarClick(w http.ResponseWriter, r *http.Request) {
	var req BarClickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	update, err := h.dashboardUC.BarClick(r.Context(), &req.Selection, req.Click, req.PreviousOutcome)
	h.writeUpdate(w, r, update, err)
}

// HandleTreemapClick applies a treemap click
func (h *DashboardHandler) HandleTreemapClick(w http.ResponseWriter, r *http.Request) {
	var req TreemapClickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	update, err := h.dashboardUC.TreemapClick(r.Context(), &req.Selection, req.Click)
	h.writeUpdate(w, r, update, err)
}
