package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig holds PostgreSQL warehouse settings.
// Passwords are never read from the file; use PGPASSWORD or a connection string.
type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
}

// IsEmpty reports whether no connection setting was given.
func (c ConnectionConfig) IsEmpty() bool {
	return c == ConnectionConfig{}
}

type DatesConfig struct {
	Strict bool `yaml:"strict"`
}

// FileConfig is the content of cdmload.yaml.
type FileConfig struct {
	CSV        string           `yaml:"csv"`
	Database   string           `yaml:"database"`
	Backend    string           `yaml:"backend"`
	OrgUID     string           `yaml:"org_uid"`
	Timeout    string           `yaml:"timeout"`
	Dates      DatesConfig      `yaml:"dates"`
	Connection ConnectionConfig `yaml:"connection"`
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (c *FileConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in %s: %w", c.Timeout, ConfigFileName, err)
	}
	return d, nil
}

const ConfigFileName = "cdmload.yaml"

// Load reads cdmload.yaml from dir.
func Load(dir string) (*FileConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads the config file at path.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}
