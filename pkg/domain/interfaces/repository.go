package interfaces

import (
	"context"

	"github.com/safetylens/safetytracker/pkg/domain/model"
)

// RecordSource reads every injury record from one storage backend
type RecordSource interface {
	// ReadRecords reads all rows into memory
	ReadRecords(ctx context.Context) ([]*model.InjuryRecord, error)

	// Close releases the backend connection
	Close() error
}
