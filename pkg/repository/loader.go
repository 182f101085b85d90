package repository

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
)

// NewSource picks a record source for a dataset location. A postgres:// or
// postgresql:// DSN reads from table, a firestore://<project>[/<database>]
// location reads the collection named by table; otherwise the file
// extension decides.
func NewSource(ctx context.Context, location, table string) (interfaces.RecordSource, error) {
	lower := strings.ToLower(location)

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return NewPostgres(ctx, location, table)
	case strings.HasPrefix(lower, firestoreScheme):
		return NewFirestore(ctx, location, table)
	case strings.HasSuffix(lower, ".parquet"):
		return NewParquet(location), nil
	case strings.HasSuffix(lower, ".csv"):
		return NewCSV(location), nil
	}

	return nil, goerr.New("unsupported dataset location",
		goerr.V("location", location),
		goerr.V("extension", filepath.Ext(location)),
		goerr.T(model.ErrTagLoad),
	)
}

// Load reads every record from src once and freezes them into a dataset
func Load(ctx context.Context, src interfaces.RecordSource, name string) (interfaces.Dataset, error) {
	logger := ctxlog.From(ctx)
	started := time.Now()

	records, err := src.ReadRecords(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read dataset", goerr.V("source", name))
	}

	ds, err := NewMemory(name, records)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := ds.DateExtent()
	logger.Info("Dataset loaded",
		"source", name,
		"id", ds.ID(),
		"records", ds.Len(),
		"states", len(ds.States()),
		"incidentTypes", len(ds.IncidentTypes()),
		"minDate", minDate.Format(model.DateLayout),
		"maxDate", maxDate.Format(model.DateLayout),
		"elapsed", time.Since(started),
	)

	return ds, nil
}

// LoadLocation opens the source for location, loads it and closes it
func LoadLocation(ctx context.Context, location, table string) (interfaces.Dataset, error) {
	src, err := NewSource(ctx, location, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			ctxlog.From(ctx).Warn("Failed to close dataset source", "error", err)
		}
	}()

	return Load(ctx, src, redactLocation(location))
}

// redactLocation strips credentials from a DSN before it is logged
func redactLocation(location string) string {
	scheme, rest, ok := strings.Cut(location, "://")
	if !ok {
		return location
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return location
	}
	return scheme + "://" + rest[at+1:]
}
