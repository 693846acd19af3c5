package effectchain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for a malformed chain configuration.
var ErrInvalidConfig = errors.New("effectchain: invalid config")

// Config is the serializable description of a serial chain. Nodes run in
// slice order.
type Config struct {
	Nodes []NodeConfig `json:"nodes" yaml:"nodes"`
}

// NodeConfig describes one node. Parameters missing from Params take the
// unit's default value.
type NodeConfig struct {
	ID       string             `json:"id"                 yaml:"id"`
	Type     string             `json:"type"               yaml:"type"`
	Bypassed bool               `json:"bypassed,omitempty" yaml:"bypassed,omitempty"`
	Params   map[string]float64 `json:"params,omitempty"   yaml:"params,omitempty"`
}

// ParseJSON decodes and validates a JSON chain configuration. Unknown
// fields are rejected.
func ParseJSON(data []byte) (Config, error) {
	var cfg Config

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: json: %w", ErrInvalidConfig, err)
	}

	return cfg, cfg.Validate()
}

// ParseYAML decodes and validates a YAML chain configuration. Unknown
// fields are rejected.
func ParseYAML(data []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: yaml: %w", ErrInvalidConfig, err)
	}

	return cfg, cfg.Validate()
}

// JSON encodes the configuration as indented JSON.
func (c Config) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// YAML encodes the configuration as YAML.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks that every node has an ID and a type and that IDs are
// unique. It does not consult a registry.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Nodes))
	for i, n := range c.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node %d has no id", ErrInvalidConfig, i)
		}

		if n.Type == "" {
			return fmt.Errorf("%w: node %q has no type", ErrInvalidConfig, n.ID)
		}

		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidConfig, n.ID)
		}

		seen[n.ID] = struct{}{}
	}

	return nil
}
