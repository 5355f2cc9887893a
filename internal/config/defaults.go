package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Names: NamesConfig{
			Pattern:   `^[A-Za-z][A-Za-z0-9]*$`,
			Normalize: "none",
			Version:   "default",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "sheet.db",
		},
		Output: OutputConfig{
			Format: "yaml",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// DefaultStoragePaths maps each backend to its location under .sheet when
// storage.path is not set.
var DefaultStoragePaths = map[string]string{
	"sqlite": "sheet.db",
	"dolt":   "dolt",
	"bolt":   "sheet.bolt",
	"yaml":   "sheets",
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Names = mergeNamesConfig(loaded.Names, defaults.Names)
	result.Storage = mergeStorageConfig(loaded.Storage, defaults.Storage)
	result.Output = mergeOutputConfig(loaded.Output, defaults.Output)
	result.Server = mergeServerConfig(loaded.Server, defaults.Server)

	return result
}

func mergeNamesConfig(loaded, defaults NamesConfig) NamesConfig {
	result := defaults

	if loaded.Pattern != "" {
		result.Pattern = loaded.Pattern
	}
	if loaded.Normalize != "" {
		result.Normalize = loaded.Normalize
	}
	if loaded.Version != "" {
		result.Version = loaded.Version
	}

	return result
}

func mergeStorageConfig(loaded, defaults StorageConfig) StorageConfig {
	result := StorageConfig{}

	// Backend: use loaded if non-empty
	if loaded.Backend != "" {
		result.Backend = loaded.Backend
	} else {
		result.Backend = defaults.Backend
	}

	// Path follows the backend unless set explicitly
	switch {
	case loaded.Path != "":
		result.Path = loaded.Path
	case DefaultStoragePaths[result.Backend] != "":
		result.Path = DefaultStoragePaths[result.Backend]
	default:
		result.Path = defaults.Path
	}

	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := OutputConfig{}

	if loaded.Format != "" {
		result.Format = loaded.Format
	} else {
		result.Format = defaults.Format
	}

	return result
}

func mergeServerConfig(loaded, defaults ServerConfig) ServerConfig {
	result := ServerConfig{}

	if loaded.Addr != "" {
		result.Addr = loaded.Addr
	} else {
		result.Addr = defaults.Addr
	}

	return result
}

// ValidNormalizeModes lists the valid values for names.normalize
var ValidNormalizeModes = []string{"none", "upper", "lower"}

// ValidBackends lists the valid values for storage.backend
var ValidBackends = []string{"sqlite", "dolt", "bolt", "yaml"}

// ValidFormats lists the valid values for output.format
var ValidFormats = []string{"yaml", "json"}

func contains(values []string, v string) bool {
	for _, valid := range values {
		if v == valid {
			return true
		}
	}
	return false
}
