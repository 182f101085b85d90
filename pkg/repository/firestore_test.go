package repository_test

import (
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/gt"
	"github.com/safetylens/safetytracker/pkg/domain/interfaces"
	"github.com/safetylens/safetytracker/pkg/repository"
)

func TestParseFirestoreLocation(t *testing.T) {
	testCases := []struct {
		name     string
		location string
		project  string
		database string
		wantErr  bool
	}{
		{name: "project only", location: "firestore://safety-prod", project: "safety-prod", database: "(default)"},
		{name: "project and database", location: "firestore://safety-prod/injuries-db", project: "safety-prod", database: "injuries-db"},
		{name: "trailing slash", location: "firestore://safety-prod/", project: "safety-prod", database: "(default)"},
		{name: "missing project", location: "firestore://", wantErr: true},
		{name: "other scheme", location: "postgres://localhost/db", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			project, database, err := repository.ParseFirestoreLocation(tc.location)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, project, tc.project)
			gt.Equal(t, database, tc.database)
		})
	}
}

func TestFirestoreCell(t *testing.T) {
	ts := time.Date(2023, 3, 1, 8, 30, 0, 0, time.UTC)

	gt.Equal(t, repository.FirestoreCell(nil), "")
	gt.Equal(t, repository.FirestoreCell("CA"), "CA")
	gt.Equal(t, repository.FirestoreCell(int64(42)), "42")
	gt.Equal(t, repository.FirestoreCell(2080.5), "2080.5")
	gt.Equal(t, repository.FirestoreCell(true), "1")
	gt.Equal(t, repository.FirestoreCell(false), "0")
	gt.Equal(t, repository.FirestoreCell(ts), "2023-03-01T08:30:00Z")
}

func TestRecordFromDocument(t *testing.T) {
	r, err := repository.RecordFromDocument(map[string]any{
		"case_number":              "F-1",
		"company_name":             "Acme",
		"state_code":               "ca",
		"type_of_incident":         "Injury",
		"incident_outcome":         "Days away from work",
		"date_of_incident":         time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC),
		"time_started_work":        "07:00",
		"time_of_incident":         "09:15:00",
		"annual_average_employees": int64(20),
		"total_hours_worked":       40000.0,
		"death":                    false,
		"dafw_num_away":            int64(3),
		"unrelated":                "ignored",
	})
	gt.NoError(t, err).Required()

	gt.Equal(t, r.CaseNumber, "F-1")
	gt.Equal(t, string(r.StateCode), "CA")
	gt.Equal(t, r.DateOfIncident.Format("2006-01-02"), "2023-05-02")
	gt.Equal(t, r.TimeOfIncident.Hour(), 9)
	gt.Equal(t, r.AnnualAverageEmployees, 20.0)
	gt.Equal(t, r.TotalHoursWorked, 40000.0)
	gt.Equal(t, r.Death, 0.0)
	gt.Equal(t, r.DaysAwayFromWork, 3.0)
	gt.Equal(t, r.DaysJobTransfer, 0.0)
}

func TestFirestoreSource(t *testing.T) {
	// Skip test if Firestore test environment variables are not set
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")
	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	ctx := testContext()
	collection := fmt.Sprintf("injuries_test_%d", time.Now().UnixNano())

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	gt.NoError(t, err).Required()
	defer client.Close()

	var refs []*firestore.DocumentRef
	for _, r := range fixtureRecords(t) {
		ref := client.Collection(collection).Doc(r.CaseNumber)
		_, err := ref.Set(ctx, map[string]any{
			"case_number":              r.CaseNumber,
			"company_name":             r.CompanyName,
			"establishment_type":       r.EstablishmentType,
			"state_code":               string(r.StateCode),
			"naics_description_5":      r.Industry,
			"soc_description_1":        r.OccupationMajor,
			"soc_description_2":        r.OccupationMinor,
			"type_of_incident":         r.TypeOfIncident,
			"incident_outcome":         r.IncidentOutcome,
			"date_of_incident":         r.DateOfIncident,
			"time_started_work":        r.TimeStartedWork.Format("15:04:05"),
			"time_of_incident":         r.TimeOfIncident.Format("15:04:05"),
			"annual_average_employees": r.AnnualAverageEmployees,
			"total_hours_worked":       r.TotalHoursWorked,
			"death":                    r.Death,
			"dafw_num_away":            r.DaysAwayFromWork,
			"djtr_num_tr":              r.DaysJobTransfer,
		})
		gt.NoError(t, err).Required()
		refs = append(refs, ref)
	}
	defer func() {
		for _, ref := range refs {
			_, _ = ref.Delete(ctx)
		}
	}()

	location := "firestore://" + projectID + "/" + databaseID
	testSource(t, func(t *testing.T) interfaces.RecordSource {
		src, err := repository.NewFirestore(ctx, location, collection)
		gt.NoError(t, err).Required()
		return src
	})
}
