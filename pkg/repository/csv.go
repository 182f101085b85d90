package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
)

// CSV reads injury records from a CSV file with a header row
type CSV struct {
	path string
}

// NewCSV creates a CSV record source
func NewCSV(path string) interfaces.RecordSource {
	return &CSV{path: path}
}

// ReadRecords reads the whole file
func (c *CSV) ReadRecords(ctx context.Context) ([]*model.InjuryRecord, error) {
	fd, err := os.Open(c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open csv file",
			goerr.V("path", c.path),
			goerr.T(model.ErrTagLoad),
		)
	}
	defer fd.Close()

	records, err := readCSV(fd)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read csv file",
			goerr.V("path", c.path),
			goerr.T(model.ErrTagLoad),
		)
	}

	ctxlog.From(ctx).Debug("CSV file read", "path", c.path, "records", len(records))
	return records, nil
}

// Close is a no-op
func (c *CSV) Close() error {
	return nil
}

func readCSV(r io.Reader) ([]*model.InjuryRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read header")
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, goerr.New("missing column in csv header", goerr.V("column", col))
		}
	}

	var records []*model.InjuryRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read csv row", goerr.V("line", line))
		}

		fields := make(map[string]string, len(requiredColumns))
		for _, col := range requiredColumns {
			if i := index[col]; i < len(row) {
				fields[col] = row[i]
			}
		}

		rec, err := recordFromFields(fields)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid csv row", goerr.V("line", line))
		}
		records = append(records, rec)
	}

	return records, nil
}
