package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	firestoreScheme          = "firestore://"
	firestoreDefaultDatabase = "(default)"
)

// Firestore reads injury records from a Firestore collection, one document
// per record with fields named after the dataset columns
type Firestore struct {
	client     *firestore.Client
	collection string
}

// parseFirestoreLocation splits firestore://<project>[/<database>]
func parseFirestoreLocation(location string) (projectID, databaseID string, err error) {
	rest, ok := strings.CutPrefix(location, firestoreScheme)
	if !ok {
		return "", "", goerr.New("not a firestore location", goerr.V("location", location))
	}

	projectID, databaseID, _ = strings.Cut(strings.Trim(rest, "/"), "/")
	if projectID == "" {
		return "", "", goerr.New("firestore project ID is required", goerr.V("location", location))
	}
	if databaseID == "" {
		databaseID = firestoreDefaultDatabase
	}
	return projectID, databaseID, nil
}

// NewFirestore connects to Firestore and verifies access to the collection
func NewFirestore(ctx context.Context, location, collection string) (interfaces.RecordSource, error) {
	logger := ctxlog.From(ctx)

	projectID, databaseID, err := parseFirestoreLocation(location)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid firestore location", goerr.T(model.ErrTagLoad))
	}
	if collection == "" {
		collection = DefaultTable
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.T(model.ErrTagLoad))
	}

	// Fail fast on permission problems; an empty collection surfaces later
	// as an empty dataset
	_, err = client.Collection(collection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		code := status.Code(err)
		if code == codes.PermissionDenied || code == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to access firestore collection",
				goerr.V("project", projectID),
				goerr.V("collection", collection),
				goerr.V("firestore error code", code.String()),
				goerr.T(model.ErrTagLoad),
			)
		}
		logger.Debug("Firestore connection test returned error",
			"error", err,
			"errorCode", code.String(),
		)
	}

	logger.Info("Firestore record source initialized",
		"projectID", projectID,
		"databaseID", databaseID,
		"collection", collection,
	)

	return &Firestore{
		client:     client,
		collection: collection,
	}, nil
}

// ReadRecords reads every document of the collection
func (f *Firestore) ReadRecords(ctx context.Context) ([]*model.InjuryRecord, error) {
	iter := f.client.Collection(f.collection).Documents(ctx)
	defer iter.Stop()

	var records []*model.InjuryRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate injury documents",
				goerr.V("collection", f.collection),
				goerr.T(model.ErrTagLoad),
			)
		}

		r, err := recordFromDocument(doc.Data())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert injury document",
				goerr.V("id", doc.Ref.ID),
				goerr.T(model.ErrTagLoad),
			)
		}
		records = append(records, r)
	}

	return records, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}

// recordFromDocument builds a record from Firestore document fields
func recordFromDocument(data map[string]any) (*model.InjuryRecord, error) {
	fields := make(map[string]string, len(requiredColumns))
	for _, c := range requiredColumns {
		if v, ok := data[c]; ok {
			fields[c] = firestoreCell(v)
		}
	}
	return recordFromFields(fields)
}

// firestoreCell renders a Firestore value the way a CSV cell would hold it
func firestoreCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(x)
	}
}
