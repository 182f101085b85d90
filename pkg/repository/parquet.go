package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/parquet-go/parquet-go"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
)

const parquetBatchSize = 256

// Parquet reads injury records from a parquet file
type Parquet struct {
	path string
}

// NewParquet creates a parquet record source. The file is opened on read.
func NewParquet(path string) interfaces.RecordSource {
	return &Parquet{path: path}
}

type parquetColumn struct {
	name string
	node parquet.Node
}

// ReadRecords reads every row group of the file
func (p *Parquet) ReadRecords(ctx context.Context) ([]*model.InjuryRecord, error) {
	fd, err := os.Open(p.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open parquet file",
			goerr.V("path", p.path),
			goerr.T(model.ErrTagLoad),
		)
	}
	defer fd.Close()

	stat, err := fd.Stat()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to stat parquet file", goerr.V("path", p.path), goerr.T(model.ErrTagLoad))
	}

	file, err := parquet.OpenFile(fd, stat.Size())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read parquet metadata",
			goerr.V("path", p.path),
			goerr.T(model.ErrTagLoad),
		)
	}

	columns := make(map[int]parquetColumn, len(requiredColumns))
	for _, name := range requiredColumns {
		leaf, ok := file.Schema().Lookup(name)
		if !ok {
			return nil, goerr.New("missing column in parquet file",
				goerr.V("path", p.path),
				goerr.V("column", name),
				goerr.T(model.ErrTagLoad),
			)
		}
		columns[leaf.ColumnIndex] = parquetColumn{name: name, node: leaf.Node}
	}

	var records []*model.InjuryRecord
	buf := make([]parquet.Row, parquetBatchSize)

	for _, rg := range file.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, goerr.Wrap(err, "parquet read cancelled", goerr.T(model.ErrTagLoad))
		}

		rows := rg.Rows()
		for {
			n, readErr := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				r, err := recordFromParquetRow(row, columns)
				if err != nil {
					_ = rows.Close()
					return nil, goerr.Wrap(err, "failed to convert parquet row",
						goerr.V("path", p.path),
						goerr.V("row", len(records)),
						goerr.T(model.ErrTagLoad),
					)
				}
				records = append(records, r)
			}
			if errors.Is(readErr, io.EOF) {
				break
			}
			if readErr != nil {
				_ = rows.Close()
				return nil, goerr.Wrap(readErr, "failed to read parquet rows",
					goerr.V("path", p.path),
					goerr.T(model.ErrTagLoad),
				)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, goerr.Wrap(err, "failed to close parquet row reader", goerr.T(model.ErrTagLoad))
		}
	}

	ctxlog.From(ctx).Debug("Parquet file read",
		"path", p.path,
		"rowGroups", len(file.RowGroups()),
		"records", len(records),
	)

	return records, nil
}

// Close is a no-op; the file handle lives only for one read
func (p *Parquet) Close() error {
	return nil
}

func recordFromParquetRow(row parquet.Row, columns map[int]parquetColumn) (*model.InjuryRecord, error) {
	fields := make(map[string]string, len(columns))
	for _, v := range row {
		col, ok := columns[v.Column()]
		if !ok || v.IsNull() {
			continue
		}
		fields[col.name] = parquetCell(v, col.node)
	}
	return recordFromFields(fields)
}

// parquetCell renders a leaf value as the text form recordFromFields parses
func parquetCell(v parquet.Value, node parquet.Node) string {
	lt := node.Type().LogicalType()

	switch v.Kind() {
	case parquet.Boolean:
		if v.Boolean() {
			return "1"
		}
		return "0"

	case parquet.Int32:
		if lt != nil && lt.Date != nil {
			return time.Unix(int64(v.Int32())*86400, 0).UTC().Format(model.DateLayout)
		}
		if lt != nil && lt.Time != nil {
			return time.UnixMilli(int64(v.Int32())).UTC().Format("15:04:05")
		}
		return strconv.FormatInt(int64(v.Int32()), 10)

	case parquet.Int64:
		if lt != nil && lt.Timestamp != nil {
			return int64Time(v.Int64(), lt.Timestamp.Unit.Millis != nil, lt.Timestamp.Unit.Micros != nil).
				Format(time.RFC3339Nano)
		}
		if lt != nil && lt.Time != nil {
			return int64Time(v.Int64(), lt.Time.Unit.Millis != nil, lt.Time.Unit.Micros != nil).
				Format("15:04:05")
		}
		return strconv.FormatInt(v.Int64(), 10)

	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)

	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)

	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	}

	return v.String()
}

func int64Time(n int64, millis, micros bool) time.Time {
	switch {
	case millis:
		return time.UnixMilli(n).UTC()
	case micros:
		return time.UnixMicro(n).UTC()
	default:
		return time.Unix(0, n).UTC()
	}
}
