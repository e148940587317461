/*
Package config manages TOML config for WordSwap services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config directory.
const FileName = "wordswap.toml"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxWordLength int `toml:"max_word_length"`
	CacheSize     int `toml:"cache_size"`
	DefaultLimit  int `toml:"default_limit"`
}

// DictConfig holds the source and snapshot file locations.
type DictConfig struct {
	WordsPath       string `toml:"words_path"`
	PermutationPath string `toml:"permutation_path"`
	SnapshotPath    string `toml:"snapshot_path"`
	Watch           bool   `toml:"watch"`
	DebounceMs      int    `toml:"debounce_ms"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ShowPosition bool `toml:"show_position"`
	DefaultLimit int  `toml:"default_limit"`
}

// GetDefaultConfigPath returns the default path for wordswap.toml
func GetDefaultConfigPath() (string, error) {
	pr, err := utils.NewPathResolver()
	if err != nil {
		return "", err
	}
	return pr.GetConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordswap/wordswap.toml
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
			MaxWordLength: 64,
			CacheSize:     4096,
			DefaultLimit:  24,
		},
		Dict: DictConfig{
			WordsPath:       "words.txt",
			PermutationPath: "shuffle.perm",
			SnapshotPath:    "wordswap.bin",
			Watch:           false,
			DebounceMs:      250,
		},
		CLI: CliConfig{
			ShowPosition: false,
			DefaultLimit: 24,
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

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section that still decodes as a table
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_word_length"); ok {
		server.MaxWordLength = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
}

// extractDictConfig extracts dictionary configuration from a map
func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "words_path"); ok {
		dict.WordsPath = val
	}
	if val, ok := utils.ExtractString(data, "permutation_path"); ok {
		dict.PermutationPath = val
	}
	if val, ok := utils.ExtractString(data, "snapshot_path"); ok {
		dict.SnapshotPath = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		dict.Watch = val
	}
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		dict.DebounceMs = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "show_position"); ok {
		cli.ShowPosition = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// RebuildConfigFile force creates a new wordswap.toml at the default path
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes the server values and saves to file
func (c *Config) Update(configPath string, maxWordLength, cacheSize, defaultLimit *int, watch *bool) error {
	server := &c.Server
	if maxWordLength != nil {
		server.MaxWordLength = *maxWordLength
	}
	if cacheSize != nil {
		server.CacheSize = *cacheSize
	}
	if defaultLimit != nil {
		server.DefaultLimit = *defaultLimit
	}
	if watch != nil {
		c.Dict.Watch = *watch
	}
	return SaveConfig(c, configPath)
}
