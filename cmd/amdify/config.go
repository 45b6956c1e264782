package main

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"amdify/pkg/util"
)

const configFile = ".amdify.yaml"

// ProjectConfig holds the contents of .amdify.yaml in the working directory.
// Command-line flags override these values.
type ProjectConfig struct {
	Patterns   []string `yaml:"patterns"`
	OutDir     string   `yaml:"out_dir"`
	Workers    int      `yaml:"workers"`
	DebounceMs int      `yaml:"debounce_ms"`
	MCPLog     string   `yaml:"mcp_log"`
	LogLevel   string   `yaml:"log_level"`
	LogFormat  string   `yaml:"log_format"`
}

// loadProjectConfig reads .amdify.yaml from the current directory. A missing
// file is not an error; it returns an empty config.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newLogger builds the process logger. Precedence: environment variables
// AMDIFY_LOG_LEVEL and AMDIFY_LOG_FORMAT, then .amdify.yaml, then defaults.
func newLogger(cfg *ProjectConfig) *slog.Logger {
	level := cfg.LogLevel
	if env := os.Getenv("AMDIFY_LOG_LEVEL"); env != "" {
		level = env
	}
	format := cfg.LogFormat
	if env := os.Getenv("AMDIFY_LOG_FORMAT"); env != "" {
		format = env
	}

	logCfg := util.DefaultLoggerConfig()
	if level != "" {
		logCfg.Level = util.ParseLogLevel(level)
	}
	if format != "" {
		logCfg.Format = util.ParseLogFormat(format)
	}
	return util.NewLogger(logCfg)
}
