package config

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// ReportConfig is the per-request forecast configuration, supplied as JSON by
// the caller and validated against reportSchema before the pipeline runs.
type ReportConfig struct {
	AccountNumber   int              `json:"Account_number"`
	ReportNumber    int              `json:"Report_number"`
	ReportToken     string           `json:"Report_token"`
	Cycletime       CycletimeConfig  `json:"Cycletime"`
	ThroughputRange int              `json:"Throughput_range"`
	Montecarlo      MontecarloConfig `json:"Montecarlo"`
}

// CycletimeConfig selects which cycletime percentiles to report.
type CycletimeConfig struct {
	Percentiles []float64 `json:"Percentiles"`
}

// MontecarloConfig parameterizes the simulation.
type MontecarloConfig struct {
	Simulations    int       `json:"Simulations"`
	SimulationDays int       `json:"Simulation_days"`
	Percentiles    []float64 `json:"Percentiles"`
}

func percentileList() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Type:             "number",
			ExclusiveMinimum: ptr(0.0),
			Maximum:          ptr(100.0),
		},
		MinItems: ptr(1),
		MaxItems: ptr(5),
	}
}

var reportSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"Account_number": {Type: "integer"},
		"Report_number":  {Type: "integer"},
		"Report_token":   {Type: "string"},
		"Cycletime": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"Percentiles": percentileList(),
			},
			Required:      []string{"Percentiles"},
			MinProperties: ptr(1),
			MaxProperties: ptr(1),
		},
		"Throughput_range": {Type: "integer"},
		"Montecarlo": {
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"Simulations":     {Type: "integer", ExclusiveMinimum: ptr(0.0)},
				"Simulation_days": {Type: "integer", ExclusiveMinimum: ptr(0.0)},
				"Percentiles":     percentileList(),
			},
			Required:      []string{"Simulations", "Simulation_days", "Percentiles"},
			MinProperties: ptr(3),
			MaxProperties: ptr(3),
		},
	},
	Required: []string{
		"Account_number", "Report_number", "Report_token",
		"Cycletime", "Throughput_range", "Montecarlo",
	},
	MinProperties: ptr(6),
	MaxProperties: ptr(6),
}

var resolvedReportSchema = func() *jsonschema.Resolved {
	resolved, err := reportSchema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("config: invalid report schema: %v", err))
	}
	return resolved
}()

// ParseReportConfig validates raw JSON against the report schema and decodes
// it. Schema violations are returned before any decoding, so a ReportConfig
// in hand is always well-formed.
func ParseReportConfig(data []byte) (*ReportConfig, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("parsing config json: %w", err)
	}
	if err := resolvedReportSchema.Validate(instance); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	var cfg ReportConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

func ptr[T any](v T) *T {
	return &v
}
