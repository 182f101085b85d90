package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
)

const (
	// DefaultTable is the table read when no table name is configured
	DefaultTable = "injuries"

	pingAttempts = 5
	pingInterval = time.Second
)

// Postgres reads injury records from a PostgreSQL table
type Postgres struct {
	db    *sql.DB
	table string
}

// NewPostgres connects to PostgreSQL and verifies the connection
func NewPostgres(ctx context.Context, dsn, table string) (interfaces.RecordSource, error) {
	logger := ctxlog.From(ctx)

	if table == "" {
		table = DefaultTable
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open postgres connection", goerr.T(model.ErrTagLoad))
	}

	for i := 0; i < pingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		logger.Debug("Postgres ping failed, retrying",
			"attempt", i+1,
			"error", err,
		)

		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, goerr.Wrap(ctx.Err(), "postgres connection cancelled", goerr.T(model.ErrTagLoad))
		case <-time.After(pingInterval):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to connect to postgres",
			goerr.V("attempts", pingAttempts),
			goerr.T(model.ErrTagLoad),
		)
	}

	logger.Info("Postgres record source initialized", "table", table)

	return &Postgres{
		db:    db,
		table: table,
	}, nil
}

func (p *Postgres) selectQuery() string {
	cols := make([]string, len(requiredColumns))
	for i, c := range requiredColumns {
		// Cast to text so timestamps, times and numerics parse the same way as CSV cells
		cols[i] = pq.QuoteIdentifier(c) + "::text"
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + pq.QuoteIdentifier(p.table)
}

// ReadRecords reads the whole table
func (p *Postgres) ReadRecords(ctx context.Context) ([]*model.InjuryRecord, error) {
	rows, err := p.db.QueryContext(ctx, p.selectQuery())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query injury table",
			goerr.V("table", p.table),
			goerr.T(model.ErrTagLoad),
		)
	}
	defer rows.Close()

	var records []*model.InjuryRecord
	cells := make([]sql.NullString, len(requiredColumns))
	dest := make([]any, len(requiredColumns))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, goerr.Wrap(err, "failed to scan injury row", goerr.T(model.ErrTagLoad))
		}

		fields := make(map[string]string, len(requiredColumns))
		for i, c := range requiredColumns {
			if cells[i].Valid {
				fields[c] = cells[i].String
			}
		}

		r, err := recordFromFields(fields)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert injury row",
				goerr.V("row", len(records)),
				goerr.T(model.ErrTagLoad),
			)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate injury rows", goerr.T(model.ErrTagLoad))
	}

	return records, nil
}

// Close closes the database handle
func (p *Postgres) Close() error {
	if err := p.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close postgres connection")
	}
	return nil
}
