package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// DNSConfig carries zone management defaults applied when a request
// leaves them out.
type DNSConfig struct {
	Hostmaster string `yaml:"hostmaster"`
	DefaultTTL int    `yaml:"default_ttl"`
	// NS seeded into the SOA record of newly created zones.
	PrimaryNS string `yaml:"primary_ns"`
	// IANA timezone used for date-based SOA serials; empty means UTC.
	Timezone string `yaml:"timezone"`
}

type Config struct {
	Listen string `yaml:"listen"`
	// bcrypt hash of the API bearer token; empty disables auth (dev only).
	APITokenHash string `yaml:"api_token_hash"`
	Debug        bool   `yaml:"debug"`

	DB  DBConfig  `yaml:"db"`
	DNS DNSConfig `yaml:"dns"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.DNS.DefaultTTL < 1 {
		c.DNS.DefaultTTL = 3600
	}
	if c.DNS.Hostmaster == "" {
		c.DNS.Hostmaster = "hostmaster"
	}
}
