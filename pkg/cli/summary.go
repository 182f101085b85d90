package cli

import (
	"context"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/cli/config"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
	"github.com/safetylens/safetytracker/pkg/service/metric"
	"github.com/urfave/cli/v3"
)

// Summary output formats
const (
	summaryTable    = "table"
	summaryMarkdown = "markdown"
	summaryCSV      = "csv"
)

func cmdSummary() *cli.Command {
	var (
		datasetCfg  config.Dataset
		mappingsCfg config.Mappings
		sortBy      string
		format      string
	)

	flags := joinFlags(
		datasetCfg.Flags(),
		mappingsCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "sort",
				Usage:       "KPI to sort states by, highest first",
				Value:       types.DefaultKPI.String(),
				Destination: &sortBy,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "Output format (table, markdown, csv)",
				Value:       summaryTable,
				Destination: &format,
			},
		},
	)

	return &cli.Command{
		Name:  "summary",
		Usage: "Print every KPI per state for the whole dataset",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			mappings, err := mappingsCfg.Configure()
			if err != nil {
				return err
			}

			ds, err := datasetCfg.Configure(ctx)
			if err != nil {
				return err
			}

			scores := metric.SafetyScores(ds.Records(), nil)
			return renderSummary(os.Stdout, scores, mappings, types.KPI(sortBy), format)
		},
	}
}

// renderSummary writes one row per state with every KPI, sorted by sortBy
// in descending order
func renderSummary(w io.Writer, scores []model.SafetyScore, mappings *model.Mappings, sortBy types.KPI, format string) error {
	if !sortBy.IsValid() {
		return goerr.Wrap(model.ErrUnknownKPI, "invalid sort key", goerr.V("kpi", sortBy))
	}

	sorted := make([]model.SafetyScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Get(sortBy) > sorted[j].Get(sortBy)
	})

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"State", "Name"}
	for _, k := range types.AllKPIs {
		header = append(header, mappings.KPILabel(k))
	}
	tw.AppendHeader(header)

	cfgs := make([]table.ColumnConfig, 0, len(types.AllKPIs))
	for i := range types.AllKPIs {
		cfgs = append(cfgs, table.ColumnConfig{Number: i + 3, Align: text.AlignRight})
	}
	tw.SetColumnConfigs(cfgs)

	for _, s := range sorted {
		row := table.Row{s.State.String(), mappings.StateName(s.State)}
		for _, k := range types.AllKPIs {
			row = append(row, formatKPI(s.Get(k)))
		}
		tw.AppendRow(row)
	}
	tw.AppendFooter(table.Row{"", "States", len(sorted)})

	switch format {
	case summaryTable, "":
		tw.Render()
	case summaryMarkdown:
		tw.RenderMarkdown()
	case summaryCSV:
		tw.RenderCSV()
	default:
		return goerr.New("invalid summary format", goerr.V("format", format))
	}
	return nil
}

func formatKPI(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
