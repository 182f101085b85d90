package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/repository"
	"github.com/urfave/cli/v3"
)

// DefaultDatasetPath is the preprocessed dataset shipped with the dashboard
const DefaultDatasetPath = "datasets/processed_data.parquet"

// Dataset holds dataset source configuration
type Dataset struct {
	Location string
	Table    string
}

// Flags returns CLI flags for Dataset configuration
func (d *Dataset) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dataset",
			Aliases:     []string{"d"},
			Usage:       "Dataset location: a .parquet or .csv file, a postgres:// DSN or firestore://<project>[/<database>]",
			Category:    "Dataset",
			Value:       DefaultDatasetPath,
			Sources:     cli.EnvVars("SAFETYTRACKER_DATASET"),
			Destination: &d.Location,
		},
		&cli.StringFlag{
			Name:        "dataset-table",
			Usage:       "Table (postgres) or collection (firestore) holding the records",
			Category:    "Dataset",
			Value:       repository.DefaultTable,
			Sources:     cli.EnvVars("SAFETYTRACKER_DATASET_TABLE"),
			Destination: &d.Table,
		},
	}
}

// Configure loads the dataset. Any failure is fatal for the caller.
func (d *Dataset) Configure(ctx context.Context) (interfaces.Dataset, error) {
	if d.Location == "" {
		return nil, goerr.New("dataset location is required")
	}

	ds, err := repository.LoadLocation(ctx, d.Location, d.Table)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load dataset")
	}
	return ds, nil
}

// LogValue returns structured log value. The location is omitted because a
// postgres DSN may carry credentials.
func (d Dataset) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", d.Location != ""),
		slog.String("table", d.Table),
	)
}
