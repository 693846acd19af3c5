package effectchain

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseJSON(t *testing.T) {
	t.Parallel()

	cfg, err := ParseJSON([]byte(`{
		"nodes": [
			{"id": "hp", "type": "hp1", "params": {"cutoff": 80}},
			{"id": "fx", "type": "chorus", "bypassed": true}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	want := Config{Nodes: []NodeConfig{
		{ID: "hp", Type: "hp1", Params: map[string]float64{"cutoff": 80}},
		{ID: "fx", Type: "chorus", Bypassed: true},
	}}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("ParseJSON = %+v, want %+v", cfg, want)
	}
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	cfg, err := ParseYAML([]byte(`
nodes:
  - id: hp
    type: hp1
    params:
      cutoff: 80
  - id: fx
    type: chorus
    bypassed: true
`))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	want := Config{Nodes: []NodeConfig{
		{ID: "hp", Type: "hp1", Params: map[string]float64{"cutoff": 80}},
		{ID: "fx", Type: "chorus", Bypassed: true},
	}}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("ParseYAML = %+v, want %+v", cfg, want)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		parse func([]byte) (Config, error)
		data  string
	}{
		{"json syntax", ParseJSON, `{"nodes": [`},
		{"json unknown field", ParseJSON, `{"nodes": [], "graph": 1}`},
		{"json missing id", ParseJSON, `{"nodes": [{"type": "gain"}]}`},
		{"json missing type", ParseJSON, `{"nodes": [{"id": "g"}]}`},
		{"json duplicate id", ParseJSON, `{"nodes": [{"id": "g", "type": "gain"}, {"id": "g", "type": "delay"}]}`},
		{"yaml syntax", ParseYAML, "nodes: [\n"},
		{"yaml unknown field", ParseYAML, "nodes: []\nconnections: []\n"},
		{"yaml duplicate id", ParseYAML, "nodes:\n  - {id: g, type: gain}\n  - {id: g, type: gain}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := tt.parse([]byte(tt.data)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigEncodingRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Config{Nodes: []NodeConfig{
		{ID: "g", Type: "gain", Params: map[string]float64{"gain": -6}},
		{ID: "d", Type: "delay", Bypassed: true, Params: map[string]float64{"delay": 0.25}},
	}}

	data, err := cfg.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("JSON round trip = %+v, want %+v", got, cfg)
	}

	data, err = cfg.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}

	got, err = ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}

	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("YAML round trip = %+v, want %+v", got, cfg)
	}
}
