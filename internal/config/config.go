package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the sheet configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the sheet workspace directory
const ConfigDirName = ".sheet"

// Config holds all sheet configuration
type Config struct {
	Names   NamesConfig   `yaml:"names"`
	Storage StorageConfig `yaml:"storage"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
}

// NamesConfig holds the cell naming policy
type NamesConfig struct {
	Pattern   string `yaml:"pattern"`
	Normalize string `yaml:"normalize"`
	Version   string `yaml:"version"`
}

// StorageConfig selects where sheets are persisted
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Path is relative to the .sheet directory unless absolute.
	Path string `yaml:"path"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format"`
}

// ServerConfig holds configuration for `sheet serve --http`
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .sheet/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .sheet directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .sheet directory if it doesn't exist.
// Returns the path to the .sheet directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if _, err := regexp.Compile(cfg.Names.Pattern); err != nil {
		return fmt.Errorf("%w: names.pattern: %v", ErrInvalidConfig, err)
	}

	if !contains(ValidNormalizeModes, cfg.Names.Normalize) {
		return fmt.Errorf("%w: names.normalize must be one of %v, got %q",
			ErrInvalidConfig, ValidNormalizeModes, cfg.Names.Normalize)
	}

	if cfg.Names.Version == "" {
		return fmt.Errorf("%w: names.version must not be empty", ErrInvalidConfig)
	}

	if !contains(ValidBackends, cfg.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend must be one of %v, got %q",
			ErrInvalidConfig, ValidBackends, cfg.Storage.Backend)
	}

	if !contains(ValidFormats, cfg.Output.Format) {
		return fmt.Errorf("%w: output.format must be one of %v, got %q",
			ErrInvalidConfig, ValidFormats, cfg.Output.Format)
	}

	if cfg.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr must not be empty", ErrInvalidConfig)
	}

	return nil
}

// SaveDefault writes the default configuration to .sheet/config.yaml in workDir.
// Creates the .sheet directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	return Save(workDir, DefaultConfig())
}

// Save writes cfg to .sheet/config.yaml in workDir. An existing config file
// is never overwritten.
func Save(workDir string, cfg *Config) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# sheet configuration\n# storage.backend: sqlite | dolt | bolt | yaml\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}

// StoragePath resolves Storage.Path against the .sheet directory.
func (c *Config) StoragePath(configDir string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(configDir, c.Storage.Path)
}
