package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/toolbench/toolbench/internal/common"
)

// Config represents the application configuration. It is read once at
// process start and treated as immutable afterwards.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Upload  UploadConfig         `toml:"upload"`
	MCP     MCPConfig            `toml:"mcp"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// UploadConfig contains file ingestion settings.
type UploadConfig struct {
	MaxSizeBytes int64  `toml:"max_size_bytes"`
	TempDir      string `toml:"temp_dir"`
}

// MCPConfig contains MCP surface settings.
type MCPConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies TOOLBENCH_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("TOOLBENCH_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TOOLBENCH_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if maxSize := os.Getenv("TOOLBENCH_UPLOAD_MAX_SIZE"); maxSize != "" {
		if n, err := strconv.ParseInt(maxSize, 10, 64); err == nil {
			config.Upload.MaxSizeBytes = n
		}
	}
	if dir := os.Getenv("TOOLBENCH_UPLOAD_TEMP_DIR"); dir != "" {
		config.Upload.TempDir = dir
	}
	if level := os.Getenv("TOOLBENCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("TOOLBENCH_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if mcpEnabled := os.Getenv("TOOLBENCH_MCP_ENABLED"); mcpEnabled != "" {
		if b, err := strconv.ParseBool(mcpEnabled); err == nil {
			config.MCP.Enabled = b
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a list of configuration problems, empty when valid.
func (c *Config) Validate() []string {
	var issues []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.Upload.MaxSizeBytes <= 0 {
		issues = append(issues, "upload.max_size_bytes must be positive")
	}
	return issues
}
