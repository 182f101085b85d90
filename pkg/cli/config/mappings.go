package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Mappings holds the location of an optional mapping table override
type Mappings struct {
	Path string
}

// Flags returns CLI flags for Mappings configuration
func (m *Mappings) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mappings",
			Usage:       "YAML file with KPI and state label tables (built-in tables if not set)",
			Category:    "Dataset",
			Sources:     cli.EnvVars("SAFETYTRACKER_MAPPINGS"),
			Destination: &m.Path,
		},
	}
}

// Configure returns the mapping tables
func (m *Mappings) Configure() (*model.Mappings, error) {
	if m.Path == "" {
		return model.DefaultMappings()
	}
	return LoadMappingsFromFile(m.Path)
}

// LoadMappingsFromFile loads mapping tables from a YAML file
func LoadMappingsFromFile(path string) (*model.Mappings, error) {
	if path == "" {
		return nil, goerr.New("mappings file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "mappings file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read mappings file",
			goerr.V("path", path))
	}

	mappings, err := model.ParseMappings(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid mappings file",
			goerr.V("path", path))
	}

	return mappings, nil
}

// LogValue returns structured log value
func (m Mappings) LogValue() slog.Value {
	source := m.Path
	if source == "" {
		source = "builtin"
	}
	return slog.GroupValue(slog.String("source", source))
}
