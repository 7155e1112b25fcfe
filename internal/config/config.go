package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Package config loads service configuration.
//
// Sources, highest priority first:
//  1. Environment variables (DATASIGHT_* prefix)
//  2. Optional YAML config file
//  3. Built-in defaults
//
// The config file is optional; env-only deployments are fully supported.

// Config contains all configuration fields.
type Config struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	LLM struct {
		Provider       string `mapstructure:"provider"` // openai | ollama | none
		APIKey         string `mapstructure:"api_key"`
		Model          string `mapstructure:"model"`
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"llm"`

	Analysis struct {
		Seed            int64   `mapstructure:"seed"`
		OutlierFraction float64 `mapstructure:"outlier_fraction"`
		RowsPerCluster  int     `mapstructure:"rows_per_cluster"`
		MinClusters     int     `mapstructure:"min_clusters"`
		MaxClusters     int     `mapstructure:"max_clusters"`
		Restarts        int     `mapstructure:"restarts"`
	} `mapstructure:"analysis"`

	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Logging struct {
		Level        string `mapstructure:"level"`
		AppLogPath   string `mapstructure:"app_log_path"`
		AuditLogPath string `mapstructure:"audit_log_path"`
		MaxSizeMB    int    `mapstructure:"max_size_mb"`
		MaxBackups   int    `mapstructure:"max_backups"`
		MaxAgeDays   int    `mapstructure:"max_age_days"`
		Compress     bool   `mapstructure:"compress"`
	} `mapstructure:"logging"`
}

// Manager loads and watches configuration.
type Manager struct {
	configPath string
	viper      *viper.Viper
	config     *Config
	watchChan  chan Config
}

// NewManager creates a manager. configPath may be empty to run from
// defaults and environment only.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		watchChan:  make(chan Config, 1),
	}
}

// Load reads all sources and validates the result.
func (m *Manager) Load() (*Config, error) {
	v := viper.New()
	m.viper = v

	v.SetEnvPrefix("DATASIGHT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if m.configPath != "" {
		v.SetConfigFile(m.configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m.config = cfg
	return cfg, nil
}

// Watch re-reads the config file on change and emits the updated config.
// Only meaningful when a config file path was given.
func (m *Manager) Watch() <-chan Config {
	if m.viper == nil || m.configPath == "" {
		return m.watchChan
	}
	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		cfg := &Config{}
		if err := m.viper.Unmarshal(cfg); err != nil {
			return
		}
		if err := cfg.Validate(); err != nil {
			return
		}
		m.config = cfg
		select {
		case m.watchChan <- *cfg:
		default:
		}
	})
	return m.watchChan
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)

	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout_seconds", 60)

	v.SetDefault("analysis.seed", 42)
	v.SetDefault("analysis.outlier_fraction", 0.10)
	v.SetDefault("analysis.rows_per_cluster", 25)
	v.SetDefault("analysis.min_clusters", 2)
	v.SetDefault("analysis.max_clusters", 4)
	v.SetDefault("analysis.restarts", 10)

	v.SetDefault("database.path", "datasight.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.app_log_path", "logs/app.log")
	v.SetDefault("logging.audit_log_path", "logs/audit.log")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 10)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("openai provider requires llm.api_key (DATASIGHT_LLM_API_KEY)")
		}
	case "ollama", "none", "":
	default:
		return fmt.Errorf("invalid LLM provider: %s (valid: openai, ollama, none)", c.LLM.Provider)
	}

	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid llm.timeout_seconds: %d", c.LLM.TimeoutSeconds)
	}
	if c.Analysis.OutlierFraction < 0 || c.Analysis.OutlierFraction > 1 {
		return fmt.Errorf("invalid analysis.outlier_fraction: %v (must be in [0,1])", c.Analysis.OutlierFraction)
	}
	if c.Analysis.MinClusters < 1 || c.Analysis.MaxClusters < c.Analysis.MinClusters {
		return fmt.Errorf("invalid cluster bounds: min=%d max=%d", c.Analysis.MinClusters, c.Analysis.MaxClusters)
	}
	if c.Analysis.RowsPerCluster < 1 {
		return fmt.Errorf("invalid analysis.rows_per_cluster: %d", c.Analysis.RowsPerCluster)
	}
	return nil
}
