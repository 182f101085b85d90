package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/safetylens/safetytracker/pkg/cli"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/safetylens/safetytracker/pkg/domain/types"
)

func TestEnvFilePath(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		path     string
		explicit bool
	}{
		{name: "absent", args: []string{"safetytracker", "serve"}},
		{name: "separate value", args: []string{"safetytracker", "--env-file", "prod.env", "serve"}, path: "prod.env", explicit: true},
		{name: "inline value", args: []string{"safetytracker", "--env-file=prod.env", "serve"}, path: "prod.env", explicit: true},
		{name: "single dash", args: []string{"safetytracker", "-env-file=x.env"}, path: "x.env", explicit: true},
		{name: "missing value", args: []string{"safetytracker", "--env-file"}, explicit: true},
		{name: "value of another flag", args: []string{"safetytracker", "--dataset", "env-file"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, explicit := cli.EnvFilePath(tc.args)
			gt.Equal(t, path, tc.path)
			gt.Equal(t, explicit, tc.explicit)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("loads variables from an explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		gt.NoError(t, os.WriteFile(path, []byte("SAFETYTRACKER_TEST_VALUE=from-file\n"), 0o600)).Required()
		t.Setenv("SAFETYTRACKER_TEST_VALUE", "")
		os.Unsetenv("SAFETYTRACKER_TEST_VALUE")

		loaded, err := cli.LoadEnvFile([]string{"safetytracker", "--env-file", path})
		gt.NoError(t, err).Required()
		gt.Equal(t, loaded, path)
		gt.Equal(t, os.Getenv("SAFETYTRACKER_TEST_VALUE"), "from-file")
	})

	t.Run("existing variables win", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		gt.NoError(t, os.WriteFile(path, []byte("SAFETYTRACKER_TEST_KEEP=from-file\n"), 0o600)).Required()
		t.Setenv("SAFETYTRACKER_TEST_KEEP", "from-env")

		_, err := cli.LoadEnvFile([]string{"safetytracker", "--env-file=" + path})
		gt.NoError(t, err).Required()
		gt.Equal(t, os.Getenv("SAFETYTRACKER_TEST_KEEP"), "from-env")
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		_, err := cli.LoadEnvFile([]string{"safetytracker", "--env-file", filepath.Join(t.TempDir(), "nope.env")})
		gt.Error(t, err)
	})

	t.Run("missing default file is ignored", func(t *testing.T) {
		t.Chdir(t.TempDir())
		loaded, err := cli.LoadEnvFile([]string{"safetytracker"})
		gt.NoError(t, err)
		gt.Equal(t, loaded, "")
	})
}

func TestRenderSummary(t *testing.T) {
	mappings, err := model.DefaultMappings()
	gt.NoError(t, err).Required()

	scores := []model.SafetyScore{
		{State: "TX", IncidentRate: 1.5, FatalityRate: 0, LostWorkdayRate: 2, WorkforceExposure: 10, DangerScore: 0.2},
		{State: "CA", IncidentRate: 3.25, FatalityRate: 1, LostWorkdayRate: 4, WorkforceExposure: 20, DangerScore: 0.4},
	}

	t.Run("table sorted by KPI", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, cli.RenderSummary(&buf, scores, mappings, types.KPIIncidentRate, "table")).Required()

		out := buf.String()
		gt.S(t, out).Contains("California")
		gt.S(t, out).Contains(strings.ToUpper(mappings.KPILabel(types.KPIIncidentRate)))
		gt.S(t, out).Contains("3.2500")
		gt.True(t, strings.Index(out, "California") < strings.Index(out, "Texas"))
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		gt.NoError(t, cli.RenderSummary(&buf, scores, mappings, types.KPIIncidentRate, "csv")).Required()
		out := buf.String()
		gt.S(t, out).Contains("CA,California,3.2500")
		gt.S(t, out).Contains("TX,Texas,1.5000")
	})

	t.Run("unknown sort key", func(t *testing.T) {
		var buf bytes.Buffer
		err := cli.RenderSummary(&buf, scores, mappings, types.KPI("speed"), "table")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, model.ErrTagValidation))
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		gt.Error(t, cli.RenderSummary(&buf, scores, mappings, types.KPIIncidentRate, "xml"))
	})
}
