package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vcppgen/vcppgen/internal/project"
	"gopkg.in/yaml.v3"
)

// Config represents a project manifest. It describes the same wrapper
// project the positional command line does, plus logging settings.
type Config struct {
	// Project contains the project name, toolset and generation switches.
	Project ProjectConfig `yaml:"project"`
	// Configurations lists the (configuration, platform) pairs in output order.
	Configurations []Configuration `yaml:"configurations"`
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// ProjectConfig contains basic project metadata.
type ProjectConfig struct {
	// Name is the output file stem and RootNamespace.
	Name string `yaml:"name"`
	// Toolset is the PlatformToolset (e.g. v141).
	Toolset string `yaml:"toolset"`
	// ProjectGuid adds a deterministic ProjectGuid to the Globals group.
	ProjectGuid bool `yaml:"project_guid"`
}

// Configuration is one configuration entry of the manifest.
type Configuration struct {
	Name     string   `yaml:"name"`
	Platform string   `yaml:"platform"`
	DLLs     []string `yaml:"dlls"`
	Libs     []string `yaml:"libs"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Path is the log file path. Empty means stderr.
	Path string `yaml:"path"`
}

// Load reads and decodes the manifest at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the manifest for missing names and unknown settings.
//
// Parameters:
//   - config: The Config object to validate.
//
// Returns:
//   - error: An error if the manifest is invalid, or nil otherwise.
func Validate(config *Config) error {
	if config.Project.Name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if err := project.ValidateName(config.Project.Name); err != nil {
		return err
	}
	if config.Project.Toolset == "" {
		return fmt.Errorf("project toolset cannot be empty (e.g. v141, v140)")
	}

	for i, c := range config.Configurations {
		if c.Name == "" {
			return fmt.Errorf("configuration #%d: name cannot be empty", i+1)
		}
		if c.Platform == "" {
			return fmt.Errorf("configuration '%s': platform cannot be empty (e.g. x86, x64)", c.Name)
		}
	}

	return ValidateLogging(config.Logging)
}

// ValidateLogging checks the logging level. An empty level is accepted and
// later replaced by ApplyDefaults.
func ValidateLogging(logging LoggingConfig) error {
	if logging.Level != "" {
		switch strings.ToLower(logging.Level) {
		case "debug", "info", "warn", "error":
			// ok
		default:
			return fmt.Errorf("invalid logging level: %s (allowed: debug, info, warn, error)", logging.Level)
		}
	}
	return nil
}

// ApplyDefaults sets default values for configuration fields that are missing.
func ApplyDefaults(config *Config) {
	if config.Logging.Level == "" {
		config.Logging.Level = "warn"
	}
}

// Build turns the manifest into a project, checking artifacts against root
// and writing empty-list warnings to out exactly as the command line does.
func (c *Config) Build(root string, out io.Writer) (*project.Project, error) {
	b := project.NewBuilder(root, out, c.Project.Name, c.Project.Toolset)
	for _, cfg := range c.Configurations {
		b.BeginConfiguration(cfg.Name, cfg.Platform)
		for _, dll := range cfg.DLLs {
			if err := b.AddBinary(dll); err != nil {
				return nil, err
			}
		}
		for _, lib := range cfg.Libs {
			if err := b.AddLibrary(lib); err != nil {
				return nil, err
			}
		}
	}
	return b.Project(), nil
}
