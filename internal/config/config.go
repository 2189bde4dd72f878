// Package config loads the simulator's fixed parameters (maximum cycle
// count, diagram width, default forwarding mode) from an optional YAML
// file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the simulator's fixed parameters: 16 cycles and a diagram
// equal to that width by default, both kept overridable here for
// experimentation.
type Config struct {
	MaxCycles int `yaml:"maxCycles"`

	// DiagramWidth is the number of cycle columns rendered. Zero means
	// "use MaxCycles", matching spec's "Diagram width equals that maximum."
	DiagramWidth int `yaml:"diagramWidth"`

	// ForwardingDefault optionally fixes the forwarding mode ("F" or "N")
	// so a config file can pin it; the CLI's positional mode argument
	// always takes precedence when given explicitly.
	ForwardingDefault string `yaml:"forwardingDefault"`
}

// DefaultConfig returns spec's fixed parameters: 16 cycles, diagram width
// equal to that, no forwarding-mode override.
func DefaultConfig() *Config {
	return &Config{
		MaxCycles:         16,
		DiagramWidth:      0,
		ForwardingDefault: "",
	}
}

// LoadConfig reads and validates a YAML config file. Any field the file
// omits keeps the corresponding DefaultConfig value; a field set explicitly
// to zero replaces it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.MaxCycles <= 0 {
		return fmt.Errorf("maxCycles must be positive")
	}

	if cfg.DiagramWidth < 0 {
		return fmt.Errorf("diagramWidth must not be negative")
	}

	switch cfg.ForwardingDefault {
	case "", "F", "N":
	default:
		return fmt.Errorf("forwardingDefault must be \"F\" or \"N\", got %q", cfg.ForwardingDefault)
	}

	return nil
}

// Width returns the effective diagram width: DiagramWidth if set, else
// MaxCycles.
func (c *Config) Width() int {
	if c.DiagramWidth > 0 {
		return c.DiagramWidth
	}
	return c.MaxCycles
}
