/*
Package config manages the TOML (or YAML) config for wordmatch.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordmatch/internal/utils"
	"github.com/bastiangx/wordmatch/pkg/pattern"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Dict    DictConfig    `toml:"dict" yaml:"dict"`
	Query   QueryConfig   `toml:"query" yaml:"query"`
	CLI     CliConfig     `toml:"cli" yaml:"cli"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	RateLimit    float64 `toml:"rate_limit" yaml:"rate_limit"`
	Burst        int     `toml:"burst" yaml:"burst"`
	IncludeWords bool    `toml:"include_words" yaml:"include_words"`
}

// DictConfig holds word list loading options.
type DictConfig struct {
	MaxWords  int  `toml:"max_words" yaml:"max_words"`
	ChunkSize int  `toml:"chunk_size" yaml:"chunk_size"`
	Strict    bool `toml:"strict" yaml:"strict"`
}

// QueryConfig holds engine options. MaxPatternLength is the only pattern
// length cap, the IPC server reports it as a bad request.
type QueryConfig struct {
	Dedupe           bool `toml:"dedupe" yaml:"dedupe"`
	MaxTemplates     int  `toml:"max_templates" yaml:"max_templates"`
	MaxPatternLength int  `toml:"max_pattern_length" yaml:"max_pattern_length"`
	CacheSize        int  `toml:"cache_size" yaml:"cache_size"`
}

// CliConfig holds interactive mode options.
type CliConfig struct {
	DefaultLimit int    `toml:"default_limit" yaml:"default_limit"`
	QuitWord     string `toml:"quit_word" yaml:"quit_word"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordmatch")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordmatch")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordmatch/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			RateLimit:    0,
			Burst:        32,
			IncludeWords: true,
		},
		Dict: DictConfig{
			MaxWords:  0,
			ChunkSize: 10000,
			Strict:    false,
		},
		Query: QueryConfig{
			Dedupe:           false,
			MaxTemplates:     pattern.DefaultMaxTemplates,
			MaxPatternLength: pattern.DefaultMaxPatternLength,
			CacheSize:        256,
		},
		CLI: CliConfig{
			DefaultLimit: 0,
			QuitWord:     "quit",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML or YAML file. Keys missing from the file keep
// their default values.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadConfigFile(configPath, config); err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse picks every well typed value out of a file whose strict decode failed.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "query"); ok {
		extractQueryConfig(section, &config.Query)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	if section, ok := utils.ExtractSection(tempConfig, "metrics"); ok {
		extractMetricsConfig(section, &config.Metrics)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractFloat(data, "rate_limit"); ok {
		server.RateLimit = val
	}
	if val, ok := utils.ExtractInt(data, "burst"); ok {
		server.Burst = val
	}
	if val, ok := utils.ExtractBool(data, "include_words"); ok {
		server.IncludeWords = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractInt(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractInt(data, "chunk_size"); ok {
		dict.ChunkSize = val
	}
	if val, ok := utils.ExtractBool(data, "strict"); ok {
		dict.Strict = val
	}
}

func extractQueryConfig(data map[string]any, query *QueryConfig) {
	if val, ok := utils.ExtractBool(data, "dedupe"); ok {
		query.Dedupe = val
	}
	if val, ok := utils.ExtractInt(data, "max_templates"); ok {
		query.MaxTemplates = val
	}
	if val, ok := utils.ExtractInt(data, "max_pattern_length"); ok {
		query.MaxPatternLength = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		query.CacheSize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractString(data, "quit_word"); ok {
		cli.QuitWord = val
	}
}

func extractMetricsConfig(data map[string]any, metrics *MetricsConfig) {
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		metrics.Enabled = val
	}
	if val, ok := utils.ExtractString(data, "addr"); ok {
		metrics.Addr = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig writes config as TOML, or YAML for .yaml/.yml paths.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveConfigFile(config, configPath)
}
