package model

import (
	_ "embed"

	"github.com/m-mizutani/goerr/v2"
	"github.com/safetylens/safetytracker/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

//go:embed mappings.yaml
var defaultMappingsYAML []byte

// KPIOption maps an internal KPI key to its display label
type KPIOption struct {
	Key   types.KPI `yaml:"key" json:"value"`
	Label string    `yaml:"label" json:"label"`
}

// Validate validates the KPI option
func (o *KPIOption) Validate() error {
	if !o.Key.IsValid() {
		return goerr.New("unsupported KPI key", goerr.V("key", o.Key))
	}
	if o.Label == "" {
		return goerr.New("KPI label is required", goerr.V("key", o.Key))
	}
	return nil
}

// StateOption maps a state abbreviation to its full name
type StateOption struct {
	Code types.StateCode `yaml:"code" json:"value"`
	Name string          `yaml:"name" json:"label"`
}

// Validate validates the state option
func (o *StateOption) Validate() error {
	if len(o.Code) != 2 {
		return goerr.New("state code must be two letters", goerr.V("code", o.Code))
	}
	if o.Name == "" {
		return goerr.New("state name is required", goerr.V("code", o.Code))
	}
	return nil
}

// Mappings holds the static lookup tables that translate raw field values
// into UI labels
type Mappings struct {
	KPIs   []KPIOption   `yaml:"kpis"`
	States []StateOption `yaml:"states"`

	kpiByLabel  map[string]types.KPI
	labelByKPI  map[types.KPI]string
	stateByCode map[types.StateCode]string
}

// DefaultMappings returns the built-in mapping tables
func DefaultMappings() (*Mappings, error) {
	return ParseMappings(defaultMappingsYAML)
}

// ParseMappings parses and validates mapping tables from YAML
func ParseMappings(data []byte) (*Mappings, error) {
	var m Mappings
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, goerr.Wrap(err, "failed to parse mappings YAML")
	}
	if err := m.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid mappings")
	}
	m.index()
	return &m, nil
}

// Validate validates the mapping tables
func (m *Mappings) Validate() error {
	if len(m.KPIs) == 0 {
		return goerr.New("at least one KPI is required")
	}
	if len(m.States) == 0 {
		return goerr.New("at least one state is required")
	}

	kpis := make(map[types.KPI]bool)
	labels := make(map[string]bool)
	for i, opt := range m.KPIs {
		if err := opt.Validate(); err != nil {
			return goerr.Wrap(err, "invalid KPI at index", goerr.V("index", i))
		}
		if kpis[opt.Key] {
			return goerr.New("duplicate KPI key", goerr.V("key", opt.Key))
		}
		if labels[opt.Label] {
			return goerr.New("duplicate KPI label", goerr.V("label", opt.Label))
		}
		kpis[opt.Key] = true
		labels[opt.Label] = true
	}

	states := make(map[types.StateCode]bool)
	for i, opt := range m.States {
		if err := opt.Validate(); err != nil {
			return goerr.Wrap(err, "invalid state at index", goerr.V("index", i))
		}
		if states[opt.Code] {
			return goerr.New("duplicate state code", goerr.V("code", opt.Code))
		}
		states[opt.Code] = true
	}

	return nil
}

func (m *Mappings) index() {
	m.kpiByLabel = make(map[string]types.KPI, len(m.KPIs))
	m.labelByKPI = make(map[types.KPI]string, len(m.KPIs))
	for _, opt := range m.KPIs {
		m.kpiByLabel[opt.Label] = opt.Key
		m.labelByKPI[opt.Key] = opt.Label
	}
	m.stateByCode = make(map[types.StateCode]string, len(m.States))
	for _, opt := range m.States {
		m.stateByCode[opt.Code] = opt.Name
	}
}

// KPILabel returns the display label of a KPI, or the key itself if unmapped
func (m *Mappings) KPILabel(k types.KPI) string {
	if label, ok := m.labelByKPI[k]; ok {
		return label
	}
	return k.String()
}

// KPIFromLabel resolves a display label back to its KPI key
func (m *Mappings) KPIFromLabel(label string) (types.KPI, bool) {
	k, ok := m.kpiByLabel[label]
	return k, ok
}

// IsKnownKPI checks if the KPI is offered in the UI
func (m *Mappings) IsKnownKPI(k types.KPI) bool {
	_, ok := m.labelByKPI[k]
	return ok
}

// StateName returns the full name of a state, or the code if unmapped
func (m *Mappings) StateName(code types.StateCode) string {
	if name, ok := m.stateByCode[code]; ok {
		return name
	}
	return code.String()
}

// IsKnownState checks if the state code exists in the mapping table
func (m *Mappings) IsKnownState(code types.StateCode) bool {
	_, ok := m.stateByCode[code]
	return ok
}
