package http

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
	"github.com/safetylens/safetytracker/pkg/service/chart"
	"github.com/safetylens/safetytracker/pkg/utils/apperr"
	"github.com/xuri/excelize/v2"
)

const (
	statesSheet = "States"
	xlsxMIME    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// selectionFromQuery reads a selection from URL query parameters, which is
// how download links carry it
func selectionFromQuery(r *http.Request) model.Selection {
	q := r.URL.Query()
	return model.Selection{
		State:            types.StateCode(q.Get("state")),
		KPI:              types.KPI(q.Get("kpi")),
		StartDate:        q.Get("start_date"),
		EndDate:          q.Get("end_date"),
		IncidentTypes:    q["incident_type"],
		Outcome:          q.Get("outcome"),
		OccupationParent: q.Get("occupation_parent"),
		OccupationLabel:  q.Get("occupation_label"),
		Window:           windowFromQuery(q),
	}
}

// windowFromQuery reads the scatter zoom window. Values that are not numbers
// leave their bound open.
func windowFromQuery(q url.Values) *model.WorkWindow {
	bound := func(key string) *float64 {
		v, err := strconv.ParseFloat(q.Get(key), 64)
		if err != nil {
			return nil
		}
		return &v
	}

	w := &model.WorkWindow{
		StartMin:    bound("start_min"),
		StartMax:    bound("start_max"),
		IncidentMin: bound("incident_min"),
		IncidentMax: bound("incident_max"),
	}
	if w.IsEmpty() {
		return nil
	}
	return w
}

// HandleExportStates downloads the per-state summary as an Excel workbook
func (h *DashboardHandler) HandleExportStates(w http.ResponseWriter, r *http.Request) {
	sel := selectionFromQuery(r)
	stats, err := h.dashboardUC.StateStats(r.Context(), &sel)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	opts := h.dashboardUC.Options()
	names := make(map[types.StateCode]string, len(opts.States))
	for _, s := range opts.States {
		names[s.Code] = s.Name
	}
	kpiLabel := sel.KPIOrDefault().String()
	for _, k := range opts.KPIs {
		if k.Key == sel.KPIOrDefault() {
			kpiLabel = k.Label
		}
	}

	var buf bytes.Buffer
	if err := writeStatesXLSX(&buf, stats, names, kpiLabel); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="states.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeStatesXLSX(w io.Writer, stats []model.StateStats, names map[types.StateCode]string, kpiLabel string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", statesSheet); err != nil {
		return goerr.Wrap(err, "failed to name sheet")
	}

	header := []any{
		"State", "Name", "Cases", "Mean employees", "Total employees",
		"Mean hours worked", "Mean days away", "Mean days transferred",
		"Mean deaths", "Injury density", kpiLabel,
	}
	if err := f.SetSheetRow(statesSheet, "A1", &header); err != nil {
		return goerr.Wrap(err, "failed to write header")
	}

	for i, s := range stats {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return goerr.Wrap(err, "failed to address row", goerr.V("row", i+2))
		}
		row := []any{
			s.State.String(), names[s.State], s.Cases, s.MeanEmployees, s.TotalEmployees,
			s.MeanHoursWorked, s.MeanDaysAway, s.MeanDaysTransfer,
			s.MeanDeath, s.InjuryDensity, s.KPIValue,
		}
		if err := f.SetSheetRow(statesSheet, cell, &row); err != nil {
			return goerr.Wrap(err, "failed to write row", goerr.V("state", s.State))
		}
	}

	if err := f.SetColWidth(statesSheet, "A", "K", 18); err != nil {
		return goerr.Wrap(err, "failed to set column width")
	}

	if _, err := f.WriteTo(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

// HandleExportChart downloads one chart as a PNG image. Charts without a
// static rendition answer 422.
func (h *DashboardHandler) HandleExportChart(w http.ResponseWriter, r *http.Request) {
	kind := types.ChartKind(chi.URLParam(r, "chart"))
	if !kind.IsValid() {
		writeError(w, goerr.New("unknown chart", goerr.V("chart", kind)), http.StatusNotFound)
		return
	}

	sel := selectionFromQuery(r)
	fig, err := h.dashboardUC.Figure(r.Context(), kind, &sel)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderPNG(fig, &buf); err != nil {
		apperr.Handle(r.Context(), err)
		if goerr.HasTag(err, model.ErrTagRender) {
			writeError(w, err, http.StatusUnprocessableEntity)
			return
		}
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+kind.String()+`.png"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
