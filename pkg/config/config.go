/*
Package config manages TOML config for the slug search services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/AppleLamps/grokipedia-sdk/internal/utils"
	"github.com/AppleLamps/grokipedia-sdk/pkg/slugindex"
)

// Config holds the entire config structure
type Config struct {
	Search  SearchConfig  `toml:"search"`
	Catalog CatalogConfig `toml:"catalog"`
}

// SearchConfig tunes the query pipeline. Thresholds are 0-1 ratios.
type SearchConfig struct {
	DefaultLimit      int     `toml:"default_limit"`
	MinSimilarity     float64 `toml:"min_similarity"`
	MinTrigramOverlap float64 `toml:"min_trigram_overlap"`
	MaxCandidates     int     `toml:"max_candidates"`
	MaxEditDistance   int     `toml:"max_edit_distance"`
}

// CatalogConfig holds catalog loading options.
type CatalogConfig struct {
	Dir      string `toml:"dir"`
	PoolSize int    `toml:"pool_size"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			DefaultLimit:      10,
			MinSimilarity:     slugindex.DefaultMinSimilarity,
			MinTrigramOverlap: slugindex.DefaultMinTrigramOverlap,
			MaxCandidates:     slugindex.DefaultMaxCandidates,
			MaxEditDistance:   slugindex.DefaultMaxEditDistance,
		},
		Catalog: CatalogConfig{
			Dir:      "links/",
			PoolSize: 0, // 0 sizes the shard reader pool from the CPU count
		},
	}
}

// SearchOptions maps the config onto index options.
func (c *Config) SearchOptions() slugindex.Options {
	return slugindex.Options{
		MinSimilarity:     c.Search.MinSimilarity,
		MinTrigramOverlap: c.Search.MinTrigramOverlap,
		MaxCandidates:     c.Search.MaxCandidates,
		MaxEditDistance:   c.Search.MaxEditDistance,
	}
}

// LoadConfig loads from a TOML file, keeping builtin defaults for any
// missing keys.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
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

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	file, err := os.Create(configPath)
	if err != nil {
		log.Errorf("Failed to create config file: %v", err)
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(config)
}
