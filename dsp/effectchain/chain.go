package effectchain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/unit"
)

var (
	// ErrUnknownNode is returned for a node ID that is not in the chain.
	ErrUnknownNode = errors.New("effectchain: unknown node")
	// ErrUnknownParam is returned for a parameter name the unit does not have.
	ErrUnknownParam = errors.New("effectchain: unknown parameter")
)

type node struct {
	id       string
	typ      string
	bypassed bool
	unit     unit.Unit
}

// Chain runs units in series. Its channel count and block size are fixed at
// construction; Process splits longer blocks.
type Chain struct {
	registry *unit.Registry
	cfg      core.ProcessorConfig

	nodes []*node

	bufA  [][]float32
	bufB  [][]float32
	viewA [][]float32
	viewB [][]float32
}

// New creates an empty chain. A nil registry selects unit.DefaultRegistry.
func New(registry *unit.Registry, opts ...core.ProcessorOption) (*Chain, error) {
	if registry == nil {
		registry = unit.DefaultRegistry()
	}

	cfg := core.ApplyProcessorOptions(opts...)

	err := core.ValidateSampleRate(cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	return &Chain{
		registry: registry,
		cfg:      cfg,
		bufA:     core.Planar(cfg.Channels, cfg.BlockSize),
		bufB:     core.Planar(cfg.Channels, cfg.BlockSize),
		viewA:    make([][]float32, cfg.Channels),
		viewB:    make([][]float32, cfg.Channels),
	}, nil
}

// Channels returns the channel count.
func (c *Chain) Channels() int { return c.cfg.Channels }

// SampleRate returns the processing sample rate.
func (c *Chain) SampleRate() float64 { return c.cfg.SampleRate }

// Len returns the number of nodes, bypassed ones included.
func (c *Chain) Len() int { return len(c.nodes) }

// IDs returns the node IDs in processing order.
func (c *Chain) IDs() []string {
	ids := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		ids[i] = n.id
	}

	return ids
}

// Unit returns the unit behind a node.
func (c *Chain) Unit(id string) (unit.Unit, bool) {
	n := c.find(id)
	if n == nil {
		return nil, false
	}

	return n.unit, true
}

func (c *Chain) find(id string) *node {
	i := slices.IndexFunc(c.nodes, func(n *node) bool { return n.id == id })
	if i < 0 {
		return nil
	}

	return c.nodes[i]
}

// Load replaces the chain topology. Nodes whose ID and type are unchanged
// keep their unit and its state; new or retyped nodes are built at the
// chain sample rate and reset after their parameters are applied. Every
// parameter not named in the node's Params returns to its default. On error
// the chain is left unchanged.
func (c *Chain) Load(cfg Config) error {
	err := cfg.Validate()
	if err != nil {
		return err
	}

	old := make(map[string]*node, len(c.nodes))
	for _, n := range c.nodes {
		old[n.id] = n
	}

	next := make([]*node, 0, len(cfg.Nodes))
	values := make([][]float32, 0, len(cfg.Nodes))
	fresh := make([]bool, 0, len(cfg.Nodes))

	for _, nc := range cfg.Nodes {
		n := old[nc.ID]
		isNew := n == nil || n.typ != nc.Type
		if isNew {
			n, err = c.newNode(nc.ID, nc.Type)
			if err != nil {
				return err
			}
		}

		var v []float32

		v, err = resolveParams(n.unit.Info(), nc)
		if err != nil {
			return err
		}

		next = append(next, &node{id: nc.ID, typ: nc.Type, bypassed: nc.Bypassed, unit: n.unit})
		values = append(values, v)
		fresh = append(fresh, isNew)
	}

	for i, n := range next {
		for p, v := range values[i] {
			n.unit.SetParameter(p, v)
		}

		if fresh[i] {
			n.unit.Reset(0)
		}
	}

	c.nodes = next

	return nil
}

// LoadJSON parses a JSON configuration and loads it.
func (c *Chain) LoadJSON(data []byte) error {
	cfg, err := ParseJSON(data)
	if err != nil {
		return err
	}

	return c.Load(cfg)
}

// LoadYAML parses a YAML configuration and loads it.
func (c *Chain) LoadYAML(data []byte) error {
	cfg, err := ParseYAML(data)
	if err != nil {
		return err
	}

	return c.Load(cfg)
}

func (c *Chain) newNode(id, typ string) (*node, error) {
	u, err := c.registry.New(typ, c.cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("effectchain: node %q: %w", id, err)
	}

	err = u.SetSampleRate(c.cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("effectchain: node %q: %w", id, err)
	}

	return &node{id: id, typ: typ, unit: u}, nil
}

// resolveParams returns the value of every input parameter of info: the
// configured one where present, the default otherwise.
func resolveParams(info unit.Info, nc NodeConfig) ([]float32, error) {
	for name := range nc.Params {
		i := info.ParamIndex(name)
		if i < 0 || info.Params[i].Output {
			return nil, fmt.Errorf("%w: node %q (%s) has no parameter %q", ErrUnknownParam, nc.ID, nc.Type, name)
		}
	}

	values := make([]float32, len(info.Params))
	for i, p := range info.Params {
		if p.Output {
			continue
		}

		values[i] = p.Default
		if v, ok := nc.Params[p.Name]; ok {
			values[i] = float32(v)
		}
	}

	return values, nil
}

// Config returns the current topology with every input parameter's value.
func (c *Chain) Config() Config {
	cfg := Config{Nodes: make([]NodeConfig, len(c.nodes))}
	for i, n := range c.nodes {
		info := n.unit.Info()
		params := make(map[string]float64, len(info.Params))
		for p, pi := range info.Params {
			if !pi.Output {
				params[pi.Name] = float64(n.unit.Parameter(p))
			}
		}

		cfg.Nodes[i] = NodeConfig{ID: n.id, Type: n.typ, Bypassed: n.bypassed, Params: params}
	}

	return cfg
}

// SetParameter sets a named parameter of a node. The unit clamps the value.
func (c *Chain) SetParameter(id, name string, value float32) error {
	n := c.find(id)
	if n == nil {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}

	info := n.unit.Info()

	i := info.ParamIndex(name)
	if i < 0 || info.Params[i].Output {
		return fmt.Errorf("%w: node %q has no parameter %q", ErrUnknownParam, id, name)
	}

	n.unit.SetParameter(i, value)

	return nil
}

// Parameter returns a named parameter or meter of a node.
func (c *Chain) Parameter(id, name string) (float32, error) {
	n := c.find(id)
	if n == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}

	i := n.unit.Info().ParamIndex(name)
	if i < 0 {
		return 0, fmt.Errorf("%w: node %q has no parameter %q", ErrUnknownParam, id, name)
	}

	return n.unit.Parameter(i), nil
}

// SetBypassed excludes a node from processing or re-enables it. A node
// that comes back from bypass resumes from the state it was left in.
func (c *Chain) SetBypassed(id string, bypassed bool) error {
	n := c.find(id)
	if n == nil {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}

	n.bypassed = bypassed

	return nil
}

// SetSampleRate changes the sample rate of every node and resets them.
func (c *Chain) SetSampleRate(sampleRate float64) error {
	err := core.ValidateSampleRate(sampleRate)
	if err != nil {
		return err
	}

	for _, n := range c.nodes {
		err = n.unit.SetSampleRate(sampleRate)
		if err != nil {
			return fmt.Errorf("effectchain: node %q: %w", n.id, err)
		}
	}

	c.cfg.SampleRate = sampleRate
	c.Reset()

	return nil
}

// Reset resets every node to silence.
func (c *Chain) Reset() {
	for _, n := range c.nodes {
		n.unit.Reset(0)
	}
}

// Types returns the unit types the chain can build.
func (c *Chain) Types() []string {
	return c.registry.Names()
}

// ParamNames returns the input parameter names of a node, sorted.
func (c *Chain) ParamNames(id string) ([]string, error) {
	n := c.find(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}

	var names []string
	for _, p := range n.unit.Info().Params {
		if !p.Output {
			names = append(names, p.Name)
		}
	}
	slices.Sort(names)

	return names, nil
}
