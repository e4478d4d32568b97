package config

import "github.com/toolbench/toolbench/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4310,
			Host: "localhost",
		},
		Upload: UploadConfig{
			MaxSizeBytes: 10 * 1024 * 1024, // 10MB
			TempDir:      "", // defaults to <os temp>/toolbench
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Logging: common.LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
