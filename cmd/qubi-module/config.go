package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/qubi-robotics/qubi-go/pkg/wire"
)

// Config holds the module daemon configuration. Flags override file
// values; file values override defaults.
type Config struct {
	// ID is the module identifier.
	ID string `yaml:"id"`

	// Type is the module category.
	Type string `yaml:"type"`

	// Port is the UDP listen port.
	Port int `yaml:"port"`

	// Name is an optional human-readable module name.
	Name string `yaml:"name"`

	// MDNS enables mDNS advertising.
	MDNS bool `yaml:"mdns"`

	// Capture is a protocol event capture file path (.qlog).
	Capture string `yaml:"capture"`

	// Verbose enables protocol event logging to stderr.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ID:   "qubi-demo",
		Type: string(wire.ModuleTypeActuator),
		Port: wire.DefaultPort,
	}
}

// LoadConfig reads a YAML configuration file, filling unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = wire.DefaultPort
	}
	return cfg, nil
}

// ApplyFlags overrides file and default values with explicitly set flags.
func (c *Config) ApplyFlags(id, typ string, port int, name string, mdns bool, capture string, verbose bool) {
	if id != "" {
		c.ID = id
	}
	if typ != "" {
		c.Type = typ
	}
	if port != 0 {
		c.Port = port
	}
	if name != "" {
		c.Name = name
	}
	if mdns {
		c.MDNS = true
	}
	if capture != "" {
		c.Capture = capture
	}
	if verbose {
		c.Verbose = true
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("module id must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", c.Port)
	}
	return nil
}

// ListenAddr returns the UDP listen address.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
