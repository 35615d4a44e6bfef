package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigPath is read when no --config flag is given.
const DefaultConfigPath = "config.yml"

// DefaultStorePath is the snapshot file used when the configuration names none.
const DefaultStorePath = "findings.yml"

type Config struct {
	Logger   Logger   `yaml:"logger"`
	Workflow Workflow `yaml:"workflow"`
	Tracking Tracking `yaml:"tracking"`
}

type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

type Workflow struct {
	// TaintRuleRepositories lists the rule repositories whose vulnerabilities are taint vulnerabilities.
	TaintRuleRepositories []string `yaml:"taint_rule_repositories"`
	// DisabledRules lists "repository:rule" keys whose dead findings are closed as REMOVED.
	DisabledRules []string `yaml:"disabled_rules"`
}

type Tracking struct {
	Store string `yaml:"store"`
}

// Default returns the configuration used when no file is available.
func Default() *Config {
	return &Config{
		Logger: Logger{Level: "INFO"},
		Workflow: Workflow{
			TaintRuleRepositories: []string{
				"javasecurity",
				"jssecurity",
				"tssecurity",
				"phpsecurity",
				"pythonsecurity",
				"roslyn.sonaranalyzer.security.cs",
			},
		},
		Tracking: Tracking{Store: DefaultStorePath},
	}
}

// ValidateConfigPath checks that the path exists and is a regular file.
func ValidateConfigPath(fs afero.Fs, path string) error {
	s, err := fs.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes a YAML file into data.
func LoadYAML(fs afero.Fs, configPath string, data interface{}) error {
	if err := ValidateConfigPath(fs, configPath); err != nil {
		return err
	}

	file, err := fs.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// NewConfig reads the configuration file over the defaults. Keys absent
// from the file keep their default value.
func NewConfig(fs afero.Fs, configPath string) (*Config, error) {
	cfg := Default()

	if err := LoadYAML(fs, configPath, cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, err
	}

	return cfg, nil
}

// Load reads and validates the configuration. A missing file is only an
// error when its path was given explicitly.
func Load(fs afero.Fs, configPath string, explicit bool) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := NewConfig(fs, configPath)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to load config file '%s': %w", configPath, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
